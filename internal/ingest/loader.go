package ingest

import (
	"bytes"
	"fmt"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/jdholdren/postboard/internal/postboard"
)

// LoadFile reads an import file and returns its records in order. See
// [ParseRecords] for the accepted formats.
func LoadFile(fsys afero.Fs, path string) ([]postboard.RawPost, error) {
	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("error reading import file: %w", err)
	}

	return ParseRecords(content), nil
}

// ParseRecords detects the format of content and extracts its records.
//
// A document that parses as JSON is read as either an array of records or an
// object holding the array under "posts", "data" or "items". Anything else is
// read as newline delimited JSON, one record per line, skipping lines that do
// not parse. Records without a string title and author are dropped.
func ParseRecords(content []byte) []postboard.RawPost {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil
	}

	if !gjson.ValidBytes(content) {
		return parseLines(content)
	}

	doc := gjson.ParseBytes(content)
	switch {
	case doc.IsArray():
		return collect(doc)
	case doc.IsObject():
		for _, key := range []string{"posts", "data", "items"} {
			arr := doc.Get(key)
			if !arr.Exists() || arr.Type == gjson.Null {
				continue
			}
			if arr.IsArray() {
				return collect(arr)
			}
			return nil
		}
	}

	return nil
}

func parseLines(content []byte) []postboard.RawPost {
	var posts []postboard.RawPost
	for line := range bytes.Lines(content) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || !gjson.ValidBytes(line) {
			continue
		}
		if p, ok := record(gjson.ParseBytes(line)); ok {
			posts = append(posts, p)
		}
	}

	return posts
}

func collect(arr gjson.Result) []postboard.RawPost {
	var posts []postboard.RawPost
	for _, item := range arr.Array() {
		if p, ok := record(item); ok {
			posts = append(posts, p)
		}
	}

	return posts
}

func record(obj gjson.Result) (postboard.RawPost, bool) {
	if !obj.IsObject() {
		return postboard.RawPost{}, false
	}

	title, author := obj.Get("title"), obj.Get("author")
	if title.Type != gjson.String || author.Type != gjson.String {
		return postboard.RawPost{}, false
	}

	p := postboard.RawPost{Title: title.String(), Author: author.String()}
	if d := obj.Get("description"); d.Type == gjson.String {
		s := d.String()
		p.Description = &s
	}
	if i := obj.Get("image"); i.Type == gjson.String {
		s := i.String()
		p.Image = &s
	}

	return p, true
}
