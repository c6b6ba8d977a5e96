package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type Int64List []int64

// 实现 sql.Scanner
func (l *Int64List) Scan(value interface{}) error {
	if value == nil {
		*l = []int64{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Int64List", value)
	}
	return json.Unmarshal(bytes, l)
}

// 实现 driver.Valuer
func (l Int64List) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Contains 判断id是否在列表中
func (l Int64List) Contains(id int64) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

type StringList []string

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = []string{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	return json.Unmarshal(bytes, l)
}

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}
