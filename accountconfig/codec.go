// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package accountconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a supported configuration serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Codec converts between file content and a Document.
type Codec interface {
	Format() Format
	Decode(data []byte) (*Document, error)
	Encode(doc *Document) ([]byte, error)
}

// CodecFor selects the codec from the file extension.
// Anything that is not .json is treated as YAML.
func CodecFor(filePath string) Codec {
	if strings.EqualFold(strings.TrimPrefix(path.Ext(filePath), "."), string(FormatJSON)) {
		return JSONCodec{}
	}
	return YAMLCodec{}
}

// YAMLCodec reads and writes YAML with a two space indent. Comments are kept.
type YAMLCodec struct{}

func (YAMLCodec) Format() Format { return FormatYAML }

func (YAMLCodec) Decode(data []byte) (*Document, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("%w: invalid yaml: %v", ErrMalformedDocument, err)
	}
	if n.Kind == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedDocument)
	}
	return newDocument(&n)
}

func (YAMLCodec) Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc.root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSONCodec reads and writes JSON with a two space indent.
// Numbers are carried as their literal text so that no precision is lost.
type JSONCodec struct{}

func (JSONCodec) Format() Format { return FormatJSON }

func (JSONCodec) Decode(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", ErrMalformedDocument, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: invalid json: trailing data", ErrMalformedDocument)
	}
	return newDocument(n)
}

func (JSONCodec) Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeJSONValue(&buf, doc.root, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func decodeJSONValue(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, stringNode(key), val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		case '[':
			n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for dec.More() {
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", v)
	case string:
		return stringNode(v), nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(v.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String()}, nil
	case bool:
		return boolNode(v), nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func encodeJSONValue(buf *bytes.Buffer, n *yaml.Node, depth int) error {
	n = resolve(n)
	if n == nil {
		buf.WriteString("null")
		return nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return encodeJSONValue(buf, n.Content[0], depth)
	case yaml.MappingNode:
		if len(n.Content) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteString(",\n")
			}
			indent(buf, depth+1)
			if err := writeJSONString(buf, n.Content[i].Value); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := encodeJSONValue(buf, n.Content[i+1], depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('\n')
		indent(buf, depth)
		buf.WriteByte('}')
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range n.Content {
			if i > 0 {
				buf.WriteString(",\n")
			}
			indent(buf, depth+1)
			if err := encodeJSONValue(buf, item, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('\n')
		indent(buf, depth)
		buf.WriteByte(']')
	case yaml.ScalarNode:
		return writeJSONScalar(buf, n)
	default:
		return fmt.Errorf("cannot encode yaml node kind %d as json", n.Kind)
	}
	return nil
}

func writeJSONScalar(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!null":
		buf.WriteString("null")
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return writeJSONString(buf, n.Value)
		}
		buf.WriteString(strconv.FormatBool(b))
	case "!!int", "!!float":
		if !json.Valid([]byte(n.Value)) {
			return writeJSONString(buf, n.Value)
		}
		buf.WriteString(n.Value)
	default:
		return writeJSONString(buf, n.Value)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

func indent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}
