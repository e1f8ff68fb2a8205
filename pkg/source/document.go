package source

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// CompressedSuffix marks snappy-framed snapshot documents
const CompressedSuffix = ".sz"

// Document is the serialized form of a snapshot. Links may be spelled
// "links" or "edges"; both are accepted on read and "links" is written.
type Document struct {
	Nodes []*graph.Attributes `json:"nodes"`
	Links []*graph.Attributes `json:"links"`
	Edges []*graph.Attributes `json:"edges,omitempty"`
}

// Records returns the nodes and the merged link list
func (d *Document) Records() ([]*graph.Attributes, []*graph.Attributes) {
	links := d.Links
	if len(d.Edges) > 0 {
		links = append(append([]*graph.Attributes{}, d.Links...), d.Edges...)
	}
	return d.Nodes, links
}

// IsCompressed reports whether name carries the snappy suffix
func IsCompressed(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), CompressedSuffix)
}

// DecodeDocument reads a JSON document, unwrapping snappy framing when
// compressed is set
func DecodeDocument(r io.Reader, compressed bool) (*Document, error) {
	if compressed {
		r = snappy.NewReader(r)
	}
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &doc, nil
}

// EncodeDocument writes doc as JSON, snappy-framed when compressed is set
func EncodeDocument(w io.Writer, doc *Document, compressed bool) error {
	if !compressed {
		return json.NewEncoder(w).Encode(doc)
	}
	sw := snappy.NewBufferedWriter(w)
	if err := json.NewEncoder(sw).Encode(doc); err != nil {
		sw.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return sw.Close()
}
