package codec

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/inkwell-blog/inkwell/internal/model"
)

func TestEncode(t *testing.T) {
	t.Run("Empty document encodes an empty blocks array", func(t *testing.T) {
		raw, err := Encode(model.Document{})
		if err != nil {
			t.Fatal(err)
		}
		if string(raw) != `{"blocks":[]}` {
			t.Errorf("Encode(empty) = %s", raw)
		}
	})

	t.Run("Known payloads keep their field shape", func(t *testing.T) {
		doc := model.Document{Blocks: []model.Block{
			{ID: "h", Type: model.TypeHeading, Data: model.HeadingData{Text: "Title", Level: 1}},
			{ID: "p", Type: model.TypeParagraph, Data: model.ParagraphData{Text: "Body"}},
		}}
		raw, err := Encode(doc)
		if err != nil {
			t.Fatal(err)
		}
		want := `{"blocks":[` +
			`{"id":"h","type":"heading","data":{"text":"Title","level":1,"styles":{}}},` +
			`{"id":"p","type":"paragraph","data":{"text":"Body","styles":{}}}]}`
		if string(raw) != want {
			t.Errorf("Encode = %s\nwant     %s", raw, want)
		}
	})
}

func TestDecode(t *testing.T) {
	t.Run("Empty input", func(t *testing.T) {
		for _, in := range []string{"", "   ", "\n\t "} {
			if doc := Decode([]byte(in)); doc.Len() != 0 {
				t.Errorf("Decode(%q).Len() = %d, want 0", in, doc.Len())
			}
		}
	})

	t.Run("Block document decodes verbatim", func(t *testing.T) {
		in := `{"blocks":[{"id":"a","type":"quote","data":{"text":"Q","author":"B","styles":{}}}]}`
		doc := Decode([]byte(in))
		if doc.Len() != 1 {
			t.Fatalf("Len = %d, want 1", doc.Len())
		}
		q, ok := doc.Blocks[0].Data.(model.QuoteData)
		if !ok {
			t.Fatalf("Data is %T, want QuoteData", doc.Blocks[0].Data)
		}
		if q.Text != "Q" || q.Author != "B" {
			t.Errorf("payload = %+v", q)
		}
	})

	t.Run("Legacy plain text becomes one paragraph", func(t *testing.T) {
		doc := Decode([]byte("Hello world"))
		if doc.Len() != 1 {
			t.Fatalf("Len = %d, want 1", doc.Len())
		}
		b := doc.Blocks[0]
		if b.Type != model.TypeParagraph {
			t.Errorf("Type = %q, want paragraph", b.Type)
		}
		if b.ID == "" {
			t.Error("migrated block has no id")
		}
		if b.Data.(model.ParagraphData).Text != "Hello world" {
			t.Errorf("Text = %q", b.Data.(model.ParagraphData).Text)
		}
	})

	t.Run("Broken JSON is treated as legacy text", func(t *testing.T) {
		doc := Decode([]byte("not-json-{{{"))
		if doc.Len() != 1 {
			t.Fatalf("Len = %d, want 1", doc.Len())
		}
		if doc.Blocks[0].Data.(model.ParagraphData).Text != "not-json-{{{" {
			t.Errorf("Text = %q", doc.Blocks[0].Data.(model.ParagraphData).Text)
		}
	})

	t.Run("Valid JSON without a blocks key is legacy text", func(t *testing.T) {
		doc := Decode([]byte(`"just a string"`))
		if doc.Len() != 1 || doc.Blocks[0].Type != model.TypeParagraph {
			t.Fatalf("scalar JSON should migrate as text, got %+v", doc)
		}
	})

	t.Run("Unknown block types survive a round-trip", func(t *testing.T) {
		in := `{"blocks":[{"id":"x","type":"widget","data":{"k":"v"}}]}`
		doc := Decode([]byte(in))
		out, err := Encode(doc)
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != in {
			t.Errorf("round-trip = %s, want %s", out, in)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	doc := model.Document{}

	doc, heading, err := model.InsertBlock(doc, model.TypeHeading, model.AppendIndex)
	if err != nil {
		t.Fatal(err)
	}
	doc, para, err := model.InsertBlock(doc, model.TypeParagraph, model.AppendIndex)
	if err != nil {
		t.Fatal(err)
	}
	doc, err = model.UpdateBlockData(doc, heading.ID, model.HeadingData{Text: "Title", Level: 2})
	if err != nil {
		t.Fatal(err)
	}
	doc, err = model.UpdateBlockData(doc, para.ID, model.ParagraphData{Text: "Body"})
	if err != nil {
		t.Fatal(err)
	}
	doc, _, err = model.MoveBlock(doc, para.ID, 0)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}

	// The id values are random, so compare shape with ids blanked.
	got := regexp.MustCompile(`"id":"[^"]*"`).ReplaceAllString(string(raw), `"id":""`)
	want := `{"blocks":[` +
		`{"id":"","type":"paragraph","data":{"text":"Body","styles":{}}},` +
		`{"id":"","type":"heading","data":{"text":"Title","level":2,"styles":{}}}]}`
	if got != want {
		t.Errorf("Encode = %s\nwant     %s", got, want)
	}

	back := Decode(raw)
	if back.Len() != doc.Len() {
		t.Fatalf("Len after round-trip = %d, want %d", back.Len(), doc.Len())
	}
	for i := range doc.Blocks {
		if back.Blocks[i].ID != doc.Blocks[i].ID {
			t.Errorf("block %d id changed in round-trip", i)
		}
		if back.Blocks[i].Type != doc.Blocks[i].Type {
			t.Errorf("block %d type changed in round-trip", i)
		}
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		t.Fatal(err)
	}
	if _, ok := probe["blocks"]; !ok {
		t.Error("encoded form must carry a blocks key")
	}
}
