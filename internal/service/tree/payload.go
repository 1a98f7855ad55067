package tree

import (
	"errors"
	"fmt"
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"treeview/internal/domain"
	models "treeview/internal/domain/models/tree"
)

// validatePayload checks the section-level shape of a payload
func validatePayload(payload *models.Payload) error {
	if payload == nil {
		return domain.NewMalformedPayload("", "payload is missing")
	}
	if err := validateSection(models.SectionFolders, payload.Folders); err != nil {
		return err
	}
	return validateSection(models.SectionItems, payload.Items)
}

func validateSection(name string, section *models.DataSection) error {
	if section == nil {
		return domain.NewMalformedPayload(name, "section is missing")
	}

	err := validation.ValidateStruct(section,
		validation.Field(&section.Columns, validation.NotNil, validation.Each(validation.By(isString))),
		validation.Field(&section.Data, validation.NotNil),
	)
	if err != nil {
		return domain.NewMalformedPayload(name, err.Error())
	}
	return nil
}

func isString(value interface{}) error {
	if _, ok := value.(string); !ok {
		return errors.New("must be a string")
	}
	return nil
}

// DecodeRows validates a payload and converts it into typed rows.
// It applies exactly the checks Build applies.
func DecodeRows(payload *models.Payload) ([]models.FolderRow, []models.ItemRow, error) {
	if err := validatePayload(payload); err != nil {
		return nil, nil, err
	}
	folders, err := decodeFolderRows(payload.Folders)
	if err != nil {
		return nil, nil, err
	}
	items, err := decodeItemRows(payload.Items)
	if err != nil {
		return nil, nil, err
	}
	return folders, items, nil
}

// decodeFolderRows converts the untyped folder rows.
// Any row that does not match [id, title, parent_id|null] rejects the payload.
func decodeFolderRows(section *models.DataSection) ([]models.FolderRow, error) {
	rows := make([]models.FolderRow, 0, len(section.Data))
	seen := make(map[int64]struct{}, len(section.Data))

	for i, raw := range section.Data {
		id, title, ref, err := decodeRow(raw)
		if err != nil {
			return nil, domain.NewMalformedRow(models.SectionFolders, i, err.Error())
		}
		if _, dup := seen[id]; dup {
			return nil, domain.NewMalformedRow(models.SectionFolders, i, fmt.Sprintf("duplicate folder id %d", id))
		}
		seen[id] = struct{}{}
		rows = append(rows, models.FolderRow{ID: id, Title: title, ParentID: ref})
	}
	return rows, nil
}

// decodeItemRows converts the untyped item rows
func decodeItemRows(section *models.DataSection) ([]models.ItemRow, error) {
	rows := make([]models.ItemRow, 0, len(section.Data))
	seen := make(map[int64]struct{}, len(section.Data))

	for i, raw := range section.Data {
		id, title, ref, err := decodeRow(raw)
		if err != nil {
			return nil, domain.NewMalformedRow(models.SectionItems, i, err.Error())
		}
		if _, dup := seen[id]; dup {
			return nil, domain.NewMalformedRow(models.SectionItems, i, fmt.Sprintf("duplicate item id %d", id))
		}
		seen[id] = struct{}{}
		rows = append(rows, models.ItemRow{ID: id, Title: title, FolderID: ref})
	}
	return rows, nil
}

func decodeRow(raw []any) (int64, string, *int64, error) {
	if len(raw) != 3 {
		return 0, "", nil, fmt.Errorf("expected 3 values, got %d", len(raw))
	}

	id, err := toInt64(raw[0])
	if err != nil {
		return 0, "", nil, fmt.Errorf("id: %w", err)
	}

	title, ok := raw[1].(string)
	if !ok {
		return 0, "", nil, fmt.Errorf("title: must be a string")
	}

	if raw[2] == nil {
		return id, title, nil, nil
	}
	ref, err := toInt64(raw[2])
	if err != nil {
		return 0, "", nil, fmt.Errorf("parent reference: %w", err)
	}
	return id, title, &ref, nil
}

// number is satisfied by json.Number from either JSON package
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%d out of range", n)
		}
		return int64(n), nil
	case float64:
		return floatToInt64(n)
	case number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("not a number: %v", v)
		}
		return floatToInt64(f)
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %v", f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%v out of range", f)
	}
	return int64(f), nil
}
