package checks

import (
	"fmt"
	"reflect"
	"strings"

	"showtime-manager/core/database"
	"showtime-manager/feature/showtimes/models"

	"gorm.io/gorm"
)

// SchemaReport strictly types the result of a schema integrity check.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "missing", "error"
}

// CheckSchema verifies the live database against the showtime models.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Tables:  make(map[string]TableReport),
		Matched: true,
		Errors:  []string{},
	}

	for _, model := range models.All() {
		table, tblReport, err := checkModel(db, model, report.Driver)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			report.Matched = false
			continue
		}
		if tblReport.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table] = tblReport
	}

	return report, nil
}

func checkModel(db *gorm.DB, model any, driver string) (string, TableReport, error) {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	tabler, ok := reflect.New(t).Interface().(interface{ TableName() string })
	if !ok {
		return "", TableReport{}, fmt.Errorf("model %s does not implement TableName", t.Name())
	}
	table := tabler.TableName()

	tblReport := TableReport{
		MissingColumns: []string{},
		TypeMismatches: []string{},
		Status:         "ok",
	}

	actualCols, err := database.GetTableColumns(db, table)
	if err != nil {
		return "", TableReport{}, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}

	actual := make(map[string]database.ColumnInfo, len(actualCols))
	for _, col := range actualCols {
		actual[col.Field] = col
	}

	for i := 0; i < t.NumField(); i++ {
		gormTag := t.Field(i).Tag.Get("gorm")

		colName := parseGormColumn(gormTag)
		if colName == "" {
			continue // relation
		}

		col, exists := actual[colName]
		if !exists {
			tblReport.MissingColumns = append(tblReport.MissingColumns, colName)
			continue
		}

		// information_schema reports "character varying" without a length
		expType := strings.ToLower(parseGormType(gormTag))
		if expType == "" || driver == database.DriverPostgres {
			continue
		}
		if !strings.Contains(col.Type, expType) {
			tblReport.TypeMismatches = append(tblReport.TypeMismatches,
				fmt.Sprintf("%s: expected %s, got %s", colName, expType, col.Type))
		}
	}

	switch {
	case len(actualCols) == 0:
		tblReport.Status = "missing"
	case len(tblReport.MissingColumns) > 0 || len(tblReport.TypeMismatches) > 0:
		tblReport.Status = "error"
	}

	return table, tblReport, nil
}

// Helpers to parse simple GORM tags
func parseGormColumn(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "column:") {
			return strings.TrimPrefix(p, "column:")
		}
	}
	return ""
}

func parseGormType(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "type:") {
			return strings.TrimPrefix(p, "type:")
		}
	}
	return ""
}
