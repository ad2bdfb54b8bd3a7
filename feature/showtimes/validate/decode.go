package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"showtime-manager/feature/showtimes/models"
)

// rawGroup and rawFilmGroup split a batch into its nested arrays so every element
// is decoded on its own and keeps its index in reported paths.
type rawGroup struct {
	Cinema   json.RawMessage   `json:"cinema"`
	Showings []json.RawMessage `json:"showings"`
}

type rawFilmGroup struct {
	Film     json.RawMessage   `json:"film"`
	Showings []json.RawMessage `json:"showings"`
}

// decodeGroups decodes a JSON array of cinema groups. Elements and fields of the
// wrong JSON type are reported under their indexed path and left zero.
func decodeGroups(raw []byte, verr *ValidationError) []models.CinemaGroup {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		verr.add("$", "json", err.Error())
		return nil
	}

	groups := make([]models.CinemaGroup, len(elems))
	for i, elem := range elems {
		prefix := fmt.Sprintf("[%d]", i)

		var rg rawGroup
		if !decodeObject(elem, &rg, prefix, verr) {
			continue
		}
		decodeObject(rg.Cinema, &groups[i].Cinema, prefix+".cinema", verr)

		groups[i].Showings = make([]models.FilmGroup, len(rg.Showings))
		for j, fgRaw := range rg.Showings {
			fgPath := fmt.Sprintf("%s.showings[%d]", prefix, j)
			fg := &groups[i].Showings[j]

			var rfg rawFilmGroup
			if !decodeObject(fgRaw, &rfg, fgPath, verr) {
				continue
			}
			decodeObject(rfg.Film, &fg.Film, fgPath+".film", verr)

			fg.Showings = make([]models.ShowingCandidate, len(rfg.Showings))
			for k, sRaw := range rfg.Showings {
				decodeObject(sRaw, &fg.Showings[k], fmt.Sprintf("%s.showings[%d]", fgPath, k), verr)
			}
		}
	}
	return groups
}

// decodeObject decodes raw into the struct dst points to. On a type mismatch every
// offending field is reported, not only the first one encoding/json stops at.
// It returns false when raw is not an object at all.
func decodeObject(raw json.RawMessage, dst any, path string, verr *ValidationError) bool {
	if len(raw) == 0 {
		return true
	}

	err := json.Unmarshal(raw, dst)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		verr.add(path, "json", err.Error())
		return false
	}

	var fields map[string]json.RawMessage
	if typeErr.Field == "" || json.Unmarshal(raw, &fields) != nil {
		verr.add(path, "type", fmt.Sprintf("expected object, got %s", typeErr.Value))
		return false
	}

	t := reflect.TypeOf(dst).Elem()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := jsonName(f)
		value, ok := fields[name]
		if !ok {
			continue
		}
		err := json.Unmarshal(value, reflect.New(f.Type).Interface())
		var fieldErr *json.UnmarshalTypeError
		if !errors.As(err, &fieldErr) {
			continue
		}
		fieldPath := path + "." + name
		if fieldErr.Field != "" {
			fieldPath += "." + fieldErr.Field
		}
		verr.add(fieldPath, "type", fmt.Sprintf("expected %s, got %s", typeName(fieldErr.Type), fieldErr.Value))
	}
	return true
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" {
		return f.Name
	}
	return name
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Slice:
		return "array"
	case reflect.Struct:
		return "object"
	default:
		return t.String()
	}
}
