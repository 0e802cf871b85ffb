// internal/seo/structured.go
//
// Structured-data (JSON-LD) publisher.
//
// Context
// -------
// A page publishes at most one `<script type="application/ld+json">`,
// identified by StructuredDataID.  Publish always removes the previous
// script first, so the document never carries two.  Input is either one
// object, used verbatim, or a list, which is flattened one level into a
// single @graph:
//
//	[ {"@type":"A"}, {"@graph":[{"@type":"B"},{"@type":"C"}]} ]
//	→ {"@context":"https://schema.org","@graph":[A, B, C]}
//
// No schema validation happens here.  Callers own the shape.
package seo

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/c0de128/4seasons/internal/head"
	"github.com/c0de128/4seasons/internal/metrics"
)

const (
	StructuredDataID = "seo-structured-data"
	SchemaContext    = "https://schema.org"
	jsonLDType       = "application/ld+json"
)

// StructuredData is one JSON-LD object or a list of them.  The zero value
// publishes nothing.
type StructuredData struct {
	objects []map[string]any
	list    bool
}

// Object wraps a single, self-contained JSON-LD object.
func Object(obj map[string]any) StructuredData {
	if obj == nil {
		return StructuredData{}
	}
	return StructuredData{objects: []map[string]any{obj}}
}

// List wraps several objects that Publish merges into one @graph.
func List(objs ...map[string]any) StructuredData {
	out := make([]map[string]any, 0, len(objs))
	for _, o := range objs {
		if o != nil {
			out = append(out, o)
		}
	}
	return StructuredData{objects: out, list: true}
}

// IsZero reports whether there is nothing to publish.
func (s StructuredData) IsZero() bool { return len(s.objects) == 0 && !s.list }

// IsList reports whether s was built from an array.
func (s StructuredData) IsList() bool { return s.list }

// Objects returns the wrapped objects (not flattened).
func (s StructuredData) Objects() []map[string]any { return s.objects }

// Append returns s with objs added.  A single object is promoted to a list.
func (s StructuredData) Append(objs ...map[string]any) StructuredData {
	return List(append(append([]map[string]any(nil), s.objects...), objs...)...)
}

// Payload returns the value Publish serialises, or nil when s is zero.
func (s StructuredData) Payload() any {
	switch {
	case s.IsZero():
		return nil
	case !s.list:
		return s.objects[0]
	default:
		return map[string]any{
			"@context": SchemaContext,
			"@graph":   flattenGraph(s.objects),
		}
	}
}

// flattenGraph splices members carrying an @graph array into the outer
// list.  Exactly one level; order preserved.
func flattenGraph(objs []map[string]any) []any {
	out := make([]any, 0, len(objs))
	for _, o := range objs {
		switch g := o["@graph"].(type) {
		case []any:
			out = append(out, g...)
		case []map[string]any:
			for _, m := range g {
				out = append(out, m)
			}
		default:
			out = append(out, o)
		}
	}
	return out
}

// Publish replaces the document's structured-data script with data.  It
// returns the new script node, or nil when data is empty.
func Publish(doc head.Document, data StructuredData) (head.Node, error) {
	removeStructuredData(doc)

	payload := data.Payload()
	if payload == nil {
		return nil, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("seo: marshal structured data: %w", err)
	}

	script := doc.Create("script")
	script.SetAttr("type", jsonLDType)
	script.SetAttr("id", StructuredDataID)
	script.SetText(string(raw))
	doc.Append(script)

	metrics.StructuredDataPublishedTotal.Inc()
	zap.L().Debug("seo: structured data published", zap.Int("bytes", len(raw)))
	return script, nil
}

// removeStructuredData drops every element carrying StructuredDataID.
func removeStructuredData(doc head.Document) int {
	nodes := doc.Find("", head.A("id", StructuredDataID))
	for _, n := range nodes {
		doc.Remove(n)
	}
	return len(nodes)
}

// ------------------------------------------------------------------
// Encoding
// ------------------------------------------------------------------

func (s StructuredData) MarshalJSON() ([]byte, error) {
	switch {
	case s.IsZero():
		return []byte("null"), nil
	case !s.list:
		return json.Marshal(s.objects[0])
	default:
		return json.Marshal(s.objects)
	}
}

func (s *StructuredData) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	return s.fromAny(raw)
}

func (s StructuredData) MarshalYAML() (any, error) {
	switch {
	case s.IsZero():
		return nil, nil
	case !s.list:
		return s.objects[0], nil
	default:
		return s.objects, nil
	}
}

func (s *StructuredData) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return s.fromAny(raw)
}

// fromAny accepts null, one mapping, or a sequence of mappings.
func (s *StructuredData) fromAny(raw any) error {
	switch v := raw.(type) {
	case nil:
		*s = StructuredData{}
	case map[string]any:
		*s = Object(v)
	case []any:
		objs := make([]map[string]any, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return fmt.Errorf("seo: structured data item %d is %T, want object", i, item)
			}
			objs = append(objs, m)
		}
		*s = List(objs...)
	default:
		return fmt.Errorf("seo: structured data is %T, want object or array", raw)
	}
	return nil
}
