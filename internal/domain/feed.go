package domain

// FeedEntry is one item of the simulated social feed endpoint. The shape is
// fixed; the data is static placeholder content, documented as a stub.
type FeedEntry struct {
	ID    string `json:"id"`
	Image string `json:"image"`
	URL   string `json:"url"`
	Alt   string `json:"alt"`
}
