package gltf

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Document errors.
var (
	// ErrInvalidDocument is returned for malformed JSON or missing required fields.
	ErrInvalidDocument = errors.New("gltf: invalid document")

	// ErrUnsupportedVersion is returned for glTF versions other than 2.x.
	ErrUnsupportedVersion = errors.New("gltf: unsupported version")

	// ErrUnsupportedURI is returned for data URIs that are not base64.
	ErrUnsupportedURI = errors.New("gltf: unsupported uri")
)

// document is the subset of the glTF 2.0 JSON schema the loader reads.
type document struct {
	Asset struct {
		Version string `json:"version"`
	} `json:"asset"`
	Buffers     []buffer     `json:"buffers"`
	BufferViews []bufferView `json:"bufferViews"`
	Accessors   []accessor   `json:"accessors"`
	Meshes      []mesh       `json:"meshes"`
	Materials   []material   `json:"materials"`
	Textures    []texture    `json:"textures"`
	Images      []imageRef   `json:"images"`
}

type buffer struct {
	URI        string `json:"uri"`
	ByteLength int    `json:"byteLength"`
}

type bufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	ByteStride int `json:"byteStride"`
}

type accessor struct {
	BufferView    *int   `json:"bufferView"`
	ByteOffset    int    `json:"byteOffset"`
	ComponentType int    `json:"componentType"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
}

type mesh struct {
	Name       string      `json:"name"`
	Primitives []primitive `json:"primitives"`
}

type primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices"`
	Material   *int           `json:"material"`
	Mode       *int           `json:"mode"`
}

type material struct {
	Name string `json:"name"`
	PBR  *struct {
		BaseColorTexture *struct {
			Index int `json:"index"`
		} `json:"baseColorTexture"`
	} `json:"pbrMetallicRoughness"`
}

type texture struct {
	Source *int `json:"source"`
}

type imageRef struct {
	Name       string `json:"name"`
	URI        string `json:"uri"`
	MimeType   string `json:"mimeType"`
	BufferView *int   `json:"bufferView"`
}

// parseDocument decodes and sanity-checks the JSON part of a model.
func parseDocument(data []byte) (*document, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") && doc.Asset.Version != "2" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, doc.Asset.Version)
	}
	for i, v := range doc.BufferViews {
		if v.Buffer < 0 || v.Buffer >= len(doc.Buffers) {
			return nil, fmt.Errorf("%w: bufferView %d references buffer %d", ErrInvalidDocument, i, v.Buffer)
		}
	}
	return &doc, nil
}

// loadBuffers resolves every buffer: the GLB binary chunk for a buffer
// without uri, a base64 data URI, or a file relative to dir.
func loadBuffers(doc *document, dir string, bin []byte) ([][]byte, error) {
	out := make([][]byte, len(doc.Buffers))
	for i, b := range doc.Buffers {
		var data []byte
		var err error
		switch {
		case b.URI == "":
			if bin == nil {
				return nil, fmt.Errorf("%w: buffer %d has no uri", ErrInvalidDocument, i)
			}
			data = bin
		default:
			data, err = readURI(b.URI, dir)
			if err != nil {
				return nil, fmt.Errorf("buffer %d: %w", i, err)
			}
		}
		if len(data) < b.ByteLength {
			return nil, fmt.Errorf("%w: buffer %d has %d bytes, byteLength is %d",
				ErrInvalidDocument, i, len(data), b.ByteLength)
		}
		out[i] = data
	}
	return out, nil
}

// readURI returns the bytes behind a data URI or a relative file path.
func readURI(uri, dir string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(uri, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, fmt.Errorf("%w: data uri is not base64", ErrUnsupportedURI)
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedURI, err)
		}
		return data, nil
	}
	name, err := url.PathUnescape(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedURI, err)
	}
	return os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
}
