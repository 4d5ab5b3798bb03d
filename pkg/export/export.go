// Package export writes API records to XLSX workbooks.
//
// Columns are derived from the json tags of the record struct, embedded structs
// flattened in place. Pointers are dereferenced, nil values leave the cell
// empty, time.Time is written as a date cell, calendar dates as ISO strings and
// other fmt.Stringer values as their string.
package export

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of records of a single struct type.
type Sheet struct {
	Name string
	Rows []any
}

type column struct {
	name  string
	index []int
}

// Write renders sheets into one workbook. Sheets without rows get no header.
func Write(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return err
	}
	dates, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		return err
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return err
		}
		if err := writeSheet(f, s, header, dates); err != nil {
			return fmt.Errorf("sheet %s: %w", s.Name, err)
		}
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, s Sheet, headerStyle, dateStyle int) error {
	if len(s.Rows) == 0 {
		return nil
	}

	t := reflect.TypeOf(s.Rows[0])
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("rows must be structs, got %s", t)
	}
	cols := columns(t, nil)

	for c, col := range cols {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(s.Name, cell, col.name); err != nil {
			return err
		}
	}

	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.Name, "A1", last, headerStyle); err != nil {
		return err
	}
	if err := f.SetPanes(s.Name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	for r, row := range s.Rows {
		v := reflect.ValueOf(row)
		for v.Kind() == reflect.Pointer {
			v = v.Elem()
		}
		if v.Type() != t {
			return fmt.Errorf("row %d is a %s, want %s", r, v.Type(), t)
		}

		for c, col := range cols {
			value, ok := cellValue(v.FieldByIndex(col.index))
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(s.Name, cell, value); err != nil {
				return err
			}
			if _, isTime := value.(time.Time); isTime {
				if err := f.SetCellStyle(s.Name, cell, cell, dateStyle); err != nil {
					return err
				}
			}
		}
	}

	return f.AutoFilter(s.Name, "A1:"+last, nil)
}

func columns(t reflect.Type, parent []int) []column {
	var out []column
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		index := append(append([]int{}, parent...), i)

		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			out = append(out, columns(sf.Type, index)...)
			continue
		}

		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = sf.Name
		}
		out = append(out, column{name: name, index: index})
	}
	return out
}

func cellValue(v reflect.Value) (any, bool) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch d := v.Interface().(type) {
	case time.Time:
		return d, true
	case openapi_types.Date:
		return d.Format(openapi_types.DateFormat), true
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String(), true
	}
	switch v.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice:
		return fmt.Sprint(v.Interface()), true
	default:
		return v.Interface(), true
	}
}
