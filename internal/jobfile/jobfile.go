// Package jobfile reads and writes the persisted job document, a YAML file
// describing which segments to join and how to trim each one. The document
// is the only durable state the tool owns; it is regenerated wholesale by
// generate mode, never edited in place.
package jobfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/backmassage/joinmaster/internal/collect"
	"github.com/backmassage/joinmaster/internal/segment"
)

// Filename is the well-known document name inside the target directory.
const Filename = "joinmaster.yaml"

// DefaultCodec is assigned by generate mode. "copy" concatenates without
// re-encoding; a hand-edited document may name a real encoder instead.
const DefaultCodec = "copy"

// ErrNotFound reports a missing document in replay mode.
var ErrNotFound = errors.New("no job document found")

// MalformedError reports a document that exists but cannot be parsed into
// the expected shape.
type MalformedError struct {
	Path   string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("job document %s is malformed: %s", e.Path, e.Reason)
}

// Entry is one segment record in the document. Key preserves the mapping
// key it was stored under; timestamps stay raw strings until conversion so
// a bad value can be reported with its entry key.
type Entry struct {
	Key   string
	Name  string
	Start string
	End   string
}

// ToSegment converts the raw entry into a validated segment.
func (e Entry) ToSegment() (segment.Segment, error) {
	seg := segment.Segment{Name: e.Name}

	if e.Start != "" {
		ts, err := segment.ParseTimestamp(e.Start)
		if err != nil {
			return segment.Segment{}, fmt.Errorf("entry %q: invalid start: %w", e.Key, err)
		}
		seg.Start = ts
	}
	if e.End != "" {
		ts, err := segment.ParseTimestamp(e.End)
		if err != nil {
			return segment.Segment{}, fmt.Errorf("entry %q: invalid end: %w", e.Key, err)
		}
		seg.End = ts
	}

	if err := seg.Validate(); err != nil {
		return segment.Segment{}, fmt.Errorf("entry %q: %w", e.Key, err)
	}
	return seg, nil
}

// Document is the parsed job document. Entries keep the order they appear
// in the file; replay processes them in exactly that order.
type Document struct {
	Codec   string
	Entries []Entry
}

// Segments converts every entry up front so a malformed trim point is
// caught before any external invocation happens.
func (d *Document) Segments() ([]segment.Segment, error) {
	segs := make([]segment.Segment, 0, len(d.Entries))
	for _, e := range d.Entries {
		seg, err := e.ToSegment()
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// MarshalYAML renders the document as an ordered mapping. Encoding goes
// through explicit yaml.Node trees because the default map encoding would
// sort entry keys alphabetically, losing the processing order.
func (d Document) MarshalYAML() (interface{}, error) {
	files := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range d.Entries {
		entry := &yaml.Node{Kind: yaml.MappingNode}
		entry.Content = append(entry.Content, pair("name", e.Name)...)
		if e.Start != "" {
			entry.Content = append(entry.Content, quotedPair("start", e.Start)...)
		}
		if e.End != "" {
			entry.Content = append(entry.Content, quotedPair("end", e.End)...)
		}
		files.Content = append(files.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: e.Key}, entry)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "codec"},
		&yaml.Node{Kind: yaml.ScalarNode, Value: d.Codec},
		&yaml.Node{Kind: yaml.ScalarNode, Value: "files"},
		files,
	)
	return root, nil
}

// pair returns a key node plus a plain value node.
func pair(key, value string) []*yaml.Node {
	return []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: key},
		{Kind: yaml.ScalarNode, Value: value},
	}
}

// quotedPair always quotes the value. Timestamps like 0:30 stay visibly
// strings instead of relying on the resolver's opinion of colons.
func quotedPair(key, value string) []*yaml.Node {
	return []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: key},
		{Kind: yaml.ScalarNode, Value: value, Style: yaml.DoubleQuotedStyle},
	}
}

// UnmarshalYAML walks the raw node tree instead of decoding into maps so
// the file's entry order survives. Unknown keys at any level are ignored,
// allowing hand-edited documents to carry extra annotations.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.New("top level must be a mapping")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "codec":
			if val.Kind != yaml.ScalarNode {
				return errors.New("codec must be a string")
			}
			d.Codec = val.Value
		case "files":
			if val.Kind != yaml.MappingNode {
				return errors.New("files must be a mapping")
			}
			for j := 0; j+1 < len(val.Content); j += 2 {
				entry, err := parseEntry(val.Content[j].Value, val.Content[j+1])
				if err != nil {
					return err
				}
				d.Entries = append(d.Entries, entry)
			}
		}
	}

	if d.Codec == "" {
		d.Codec = DefaultCodec
	}
	return nil
}

func parseEntry(key string, node *yaml.Node) (Entry, error) {
	if node.Kind != yaml.MappingNode {
		return Entry{}, fmt.Errorf("entry %q must be a mapping", key)
	}

	e := Entry{Key: key}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		switch k.Value {
		case "name", "start", "end":
			if v.Kind != yaml.ScalarNode {
				return Entry{}, fmt.Errorf("entry %q: %s must be a scalar", key, k.Value)
			}
		default:
			continue
		}
		switch k.Value {
		case "name":
			e.Name = v.Value
		case "start":
			e.Start = v.Value
		case "end":
			e.End = v.Value
		}
	}

	if e.Name == "" {
		return Entry{}, fmt.Errorf("entry %q has no name", key)
	}
	return e, nil
}

// Parse decodes a document from raw YAML.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads the document from its well-known path inside dir. A missing
// file reports ErrNotFound; anything unparseable reports *MalformedError.
func Load(dir string) (*Document, error) {
	path := filepath.Join(dir, Filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading job document: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, &MalformedError{Path: path, Reason: err.Error()}
	}
	return doc, nil
}

// Save writes the document to its well-known path inside dir, replacing
// any previous document unconditionally.
func Save(dir string, doc *Document) (string, error) {
	path := filepath.Join(dir, Filename)

	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding job document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing job document: %w", err)
	}
	return path, nil
}

// Generate scans dir with the segment pattern and writes a fresh document
// with one entry per match, no trim points, and the default codec. Zero
// matches still produce a valid (empty) document; the caller decides how
// loudly to complain. Returns the written path and the entry count.
func Generate(dir string, re *regexp.Regexp) (string, int, error) {
	matches, err := collect.Collect(dir, re)
	if err != nil && !errors.Is(err, collect.ErrNoMatches) {
		return "", 0, err
	}

	doc := &Document{Codec: DefaultCodec}
	for i, m := range matches {
		doc.Entries = append(doc.Entries, Entry{
			Key:  fmt.Sprintf("file%d", i+1),
			Name: m.Name,
		})
	}

	path, err := Save(dir, doc)
	if err != nil {
		return "", 0, err
	}
	return path, len(doc.Entries), nil
}
