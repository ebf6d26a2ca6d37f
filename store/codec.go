package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/atticdev/attic/models"
	yaml "gopkg.in/yaml.v3"
)

// listDoc is the on-disk document for one live collection.
type listDoc[T any] struct {
	Items      []T `json:"items" yaml:"items" toml:"items"`
	TotalCount int `json:"totalCount" yaml:"totalCount" toml:"totalCount"`
}

// listCodec translates between one collection's typed list document
// and the uniform Item view the store works with.
type listCodec struct {
	unmarshal func(data []byte, format string) ([]models.Item, error)
	marshal   func(items []models.Item, format string) ([]byte, error)
}

// codecs maps each item type to its list codec. The store refuses to
// open a collection whose type has no codec here.
var codecs = map[models.ItemType]listCodec{
	models.ItemTypeTask:     codecFor[models.Task](),
	models.ItemTypeProject:  codecFor[models.Project](),
	models.ItemTypeNote:     codecFor[models.Note](),
	models.ItemTypeBookmark: codecFor[models.Bookmark](),
	models.ItemTypeSnippet:  codecFor[models.Snippet](),
}

func codecFor[T models.Item]() listCodec {
	return listCodec{
		unmarshal: func(data []byte, format string) ([]models.Item, error) {
			var doc listDoc[T]
			switch format {
			case formatJSON:
				if err := json.Unmarshal(data, &doc); err != nil {
					return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
				}
			case formatYAML:
				if err := yaml.Unmarshal(data, &doc); err != nil {
					return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
				}
			case formatTOML:
				if err := toml.Unmarshal(data, &doc); err != nil {
					return nil, fmt.Errorf("failed to unmarshal TOML: %w", err)
				}
			default:
				return nil, fmt.Errorf("unsupported data format for loading: %s", format)
			}
			items := make([]models.Item, 0, len(doc.Items))
			for _, it := range doc.Items {
				items = append(items, it)
			}
			return items, nil
		},
		marshal: func(items []models.Item, format string) ([]byte, error) {
			doc := listDoc[T]{
				Items:      make([]T, 0, len(items)),
				TotalCount: len(items),
			}
			for _, it := range items {
				typed, ok := it.(T)
				if !ok {
					return nil, fmt.Errorf("item %s does not belong to this collection", it.ItemID())
				}
				doc.Items = append(doc.Items, typed)
			}
			switch format {
			case formatJSON:
				return json.MarshalIndent(doc, "", "  ")
			case formatYAML:
				return yaml.Marshal(doc)
			case formatTOML:
				buf := new(bytes.Buffer)
				if err := toml.NewEncoder(buf).Encode(doc); err != nil {
					return nil, fmt.Errorf("failed to marshal TOML: %w", err)
				}
				return buf.Bytes(), nil
			default:
				return nil, fmt.Errorf("unsupported data format for saving: %s", format)
			}
		},
	}
}
