package checks

import (
	"context"
	"errors"

	"showtime-manager/core/storage"
	"showtime-manager/feature/showtimes/validate"
)

// BatchReport is the validation status of one pending batch object.
type BatchReport struct {
	Key     string                `json:"key"`
	Valid   bool                  `json:"valid"`
	Cinemas int                   `json:"cinemas"`
	Fields  []validate.FieldError `json:"fields,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// CheckBatches validates every object under prefix without reconciling anything.
func CheckBatches(ctx context.Context, client storage.Client, bucket, prefix string) ([]BatchReport, error) {
	keys, err := storage.ListKeys(ctx, client, bucket, prefix)
	if err != nil {
		return nil, err
	}

	reports := make([]BatchReport, 0, len(keys))
	for _, key := range keys {
		r := BatchReport{Key: key}

		data, err := storage.ReadObject(ctx, client, bucket, key)
		if err != nil {
			r.Error = err.Error()
			reports = append(reports, r)
			continue
		}

		groups, err := validate.Batch(data)
		var verr *validate.ValidationError
		switch {
		case errors.As(err, &verr):
			r.Fields = verr.Fields
		case err != nil:
			r.Error = err.Error()
		default:
			r.Valid = true
			r.Cinemas = len(groups)
		}
		reports = append(reports, r)
	}

	return reports, nil
}
