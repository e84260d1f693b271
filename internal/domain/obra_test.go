package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/vidranorte/vitrine-api/internal/domain"
)

func TestChecklistProgress(t *testing.T) {
	tests := []struct {
		name     string
		list     domain.Checklist
		expected int
	}{
		{"empty", domain.Checklist{}, 0},
		{"nil", nil, 0},
		{
			"none done",
			domain.Checklist{{Key: "a"}, {Key: "b"}},
			0,
		},
		{
			"half done",
			domain.Checklist{{Key: "a", Status: true}, {Key: "b"}},
			50,
		},
		{
			"one of three rounds to 33",
			domain.Checklist{{Key: "a", Status: true}, {Key: "b"}, {Key: "c"}},
			33,
		},
		{
			"two of three rounds to 67",
			domain.Checklist{{Key: "a", Status: true}, {Key: "b", Status: true}, {Key: "c"}},
			67,
		},
		{
			"all done",
			domain.Checklist{{Key: "a", Status: true}, {Key: "b", Status: true}},
			100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.list.Progress(); got != tt.expected {
				t.Errorf("expected %d%%, got %d%%", tt.expected, got)
			}
		})
	}
}

func TestChecklistUnmarshalKeepsPayloadOrder(t *testing.T) {
	payload := []byte(`{
		"medicao":    {"text": "Medição no local", "status": true},
		"fabricacao": {"text": "Fabricação", "status": true},
		"entrega":    {"text": "Entrega", "status": false},
		"instalacao": {"text": "Instalação", "status": false}
	}`)

	var c domain.Checklist
	if err := json.Unmarshal(payload, &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	wantKeys := []string{"medicao", "fabricacao", "entrega", "instalacao"}
	if len(c) != len(wantKeys) {
		t.Fatalf("expected %d items, got %d", len(wantKeys), len(c))
	}
	for i, key := range wantKeys {
		if c[i].Key != key {
			t.Errorf("item %d: expected key %q, got %q", i, key, c[i].Key)
		}
	}
	if c[0].Text != "Medição no local" || !c[0].Status {
		t.Errorf("first item decoded wrong: %+v", c[0])
	}
}

func TestChecklistMarshalRoundTrip(t *testing.T) {
	original := domain.Checklist{
		{Key: "zeta", Text: "Último na ordem alfabética, primeiro na lista", Status: true},
		{Key: "alfa", Text: "Primeiro na ordem alfabética, segundo na lista", Status: false},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded domain.Checklist
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("expected 2 items, got %d", len(decoded))
	}
	if decoded[0].Key != "zeta" || decoded[1].Key != "alfa" {
		t.Errorf("order not preserved: %q, %q", decoded[0].Key, decoded[1].Key)
	}
}

func TestChecklistUnmarshalNull(t *testing.T) {
	var c domain.Checklist
	if err := json.Unmarshal([]byte("null"), &c); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil checklist, got %v", c)
	}
}

func TestNewObraView(t *testing.T) {
	obra := domain.Obra{
		ID:     "obra-1",
		Titulo: "1042",
		Checklist: domain.Checklist{
			{Key: "medicao", Text: "Medição", Status: true},
			{Key: "entrega", Text: "Entrega", Status: false},
		},
	}

	view := domain.NewObraView(obra)
	if view.Progress != 50 {
		t.Errorf("expected 50%%, got %d%%", view.Progress)
	}
	if len(view.Itens) != 2 {
		t.Fatalf("expected 2 itens, got %d", len(view.Itens))
	}
	if view.Itens[0].Key != "medicao" {
		t.Errorf("expected first item 'medicao', got %q", view.Itens[0].Key)
	}
}
