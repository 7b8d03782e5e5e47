package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON stores free-form documents such as raw aggregator responses.
type JSON map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported JSON column type")
	}
	return json.Unmarshal(data, j)
}

// ToJSON converts any JSON-encodable value into a JSON document.
func ToJSON(v interface{}) (JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out JSON
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
