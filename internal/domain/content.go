package domain

// Public site content records. All of these live in Supabase tables and are
// pulled read-only by the public pages; the dashboard is the only writer.

// PortfolioItem is one entry of the portfolio section. Only active+pinned
// items, ordered by (Ordem asc, CreatedAt desc), appear on the landing
// page, at most three.
type PortfolioItem struct {
	ID        string `json:"id"`
	Titulo    string `json:"titulo"`
	Descricao string `json:"descricao"`
	Imagem    string `json:"imagem"`
	Secao     string `json:"secao"`
	Fixado    bool   `json:"fixado"`
	Ordem     int    `json:"ordem"`
	Ativo     bool   `json:"ativo"`
	CreatedAt string `json:"created_at"`
}

// BlogPost is a blog entry. Only active posts are shown, ordered by
// (Fixado desc, CreatedAt desc); the landing preview takes three.
type BlogPost struct {
	ID        string   `json:"id"`
	Titulo    string   `json:"titulo"`
	Conteudo  string   `json:"conteudo"`
	Autor     string   `json:"autor"`
	Imagens   []string `json:"imagens"`
	Fixado    bool     `json:"fixado"`
	Ativo     bool     `json:"ativo"`
	CreatedAt string   `json:"created_at"`
}

// HeroImage is one slide of the landing hero carousel.
type HeroImage struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Alt   string `json:"alt"`
	Ordem int    `json:"ordem"`
	Ativo bool   `json:"ativo"`
}

// HeroButton is the landing call-to-action. At most one is active.
type HeroButton struct {
	ID    string `json:"id"`
	Texto string `json:"texto"`
	Link  string `json:"link"`
	Ativo bool   `json:"ativo"`
}

// BackgroundImage is one full-bleed image of the landing cross-fade cycle.
type BackgroundImage struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Ordem int    `json:"ordem"`
	Ativo bool   `json:"ativo"`
}

// Hero bundles the carousel payload the landing page consumes. Fallback is
// true when the fixed substitute set is being served (fetch failed or came
// back empty).
type Hero struct {
	Images   []HeroImage `json:"images"`
	Button   HeroButton  `json:"button"`
	Fallback bool        `json:"fallback"`
}

// Landing is the aggregate payload for the landing page.
type Landing struct {
	Hero        Hero              `json:"hero"`
	Backgrounds []BackgroundImage `json:"backgrounds"`
	Portfolio   []PortfolioItem   `json:"portfolio"`
	Blog        []BlogPost        `json:"blog"`
}
