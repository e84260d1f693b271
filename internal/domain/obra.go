package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Obra is a work order as stored in the obras table. Titulo is the
// human-readable order number the public page looks it up by; ID is the
// opaque key the realtime subscription filters on.
type Obra struct {
	ID              string    `json:"id"`
	Titulo          string    `json:"titulo"`
	Cliente         string    `json:"cliente"`
	Endereco        string    `json:"endereco"`
	Instalador      string    `json:"instalador"`
	DataInicio      string    `json:"data_inicio"`
	PrevisaoTermino string    `json:"previsao_termino"`
	Observacoes     string    `json:"observacoes"`
	Fotos           []string  `json:"fotos"`
	Checklist       Checklist `json:"checklist_status"`
	CreatedAt       string    `json:"created_at,omitempty"`
}

// Progress returns the completion percentage derived from the checklist,
// rounded to the nearest integer. Zero entries means 0%.
func (o *Obra) Progress() int {
	return o.Checklist.Progress()
}

// ChecklistItem is one entry of the dynamic checklist map. Key is the
// arbitrary item identifier used in the stored JSON object.
type ChecklistItem struct {
	Key    string `json:"key"`
	Text   string `json:"text"`
	Status bool   `json:"status"`
}

// Checklist is the checklist_status column decoded into an ordered list.
// The backend stores a JSON object with arbitrary keys and no declared
// ordering contract, so we pin the order down ourselves: entries keep
// exactly the order they appear in the payload. Encoding reproduces that
// order, which keeps a fetch/update round trip stable.
type Checklist []ChecklistItem

// Progress = round(100 * completed / total); 0 when the list is empty.
func (c Checklist) Progress() int {
	if len(c) == 0 {
		return 0
	}
	done := 0
	for _, it := range c {
		if it.Status {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(c)) * 100))
}

type checklistValue struct {
	Text   string `json:"text"`
	Status bool   `json:"status"`
}

// UnmarshalJSON walks the object with a token decoder instead of
// unmarshalling into a map, which would lose the payload order.
func (c *Checklist) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*c = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("checklist_status: expected object, got %v", tok)
	}

	items := Checklist{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("checklist_status: non-string key %v", keyTok)
		}
		var v checklistValue
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("checklist_status[%s]: %w", key, err)
		}
		items = append(items, ChecklistItem{Key: key, Text: v.Text, Status: v.Status})
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return err
	}

	*c = items
	return nil
}

// MarshalJSON writes the object back in list order.
func (c Checklist) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, it := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(it.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(checklistValue{Text: it.Text, Status: it.Status})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ObraView is the API shape for the detail page: the record plus the
// derived fields the page renders.
type ObraView struct {
	Obra     Obra            `json:"obra"`
	Itens    []ChecklistItem `json:"itens"`
	Progress int             `json:"progresso"`
}

// NewObraView derives the checklist entries and progress for a record.
func NewObraView(o Obra) ObraView {
	itens := make([]ChecklistItem, len(o.Checklist))
	copy(itens, o.Checklist)
	return ObraView{Obra: o, Itens: itens, Progress: o.Progress()}
}
