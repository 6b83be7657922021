package events

import (
	"reflect"

	"github.com/pkg/errors"
)

// ErrNoTable is returned for events that do not name a table
var ErrNoTable = errors.New("event has no table")

// TableOf returns the TableID field every table event carries
func TableOf(event Event) (string, error) {
	v := reflect.Indirect(reflect.ValueOf(event))
	if v.Kind() != reflect.Struct {
		return "", errors.Wrapf(ErrNoTable, "%T", event)
	}
	if f := v.FieldByName("TableID"); f.Kind() == reflect.String && f.String() != "" {
		return f.String(), nil
	}
	return "", errors.Wrapf(ErrNoTable, "%T", event)
}
