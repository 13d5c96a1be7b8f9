// Copyright (C) 2025-2026 Susu Finance, Inc.
// This file is part of go-susu
//
// go-susu is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-susu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-susu.  If not, see <https://www.gnu.org/licenses/>.

package codecs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
)

// NewFormattedJSONEncoder returns a json encoder configured for
// pretty-printed output (human-readable)
func NewFormattedJSONEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	enc.SetEscapeHTML(false)
	return enc
}

// LoadObjectFromFile implements the common pattern for loading an instance
// of an object from a json file.
func LoadObjectFromFile(filename string, object interface{}) (err error) {
	f, err := os.Open(filename)
	if err != nil {
		return
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	err = dec.Decode(object)
	return
}

// SaveObjectToFile implements the common pattern for saving an object to a file as json
func SaveObjectToFile(filename string, object interface{}, prettyFormat bool) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	var enc *json.Encoder
	if prettyFormat {
		enc = NewFormattedJSONEncoder(f)
	} else {
		enc = json.NewEncoder(f)
	}
	err = enc.Encode(object)
	return err
}

// SaveNonDefaultValuesToFile saves an object to a file as json, but only
// fields whose values differ from those in defaultObject.  Field names
// listed in alwaysInclude are written regardless.  Both objects must be
// structs (or pointers to structs) of the same type, with only flat
// exported fields.
func SaveNonDefaultValuesToFile(filename string, object, defaultObject interface{}, alwaysInclude []string, prettyFormat bool) error {
	v := reflect.Indirect(reflect.ValueOf(object))
	d := reflect.Indirect(reflect.ValueOf(defaultObject))
	if v.Type() != d.Type() {
		return fmt.Errorf("mismatched types %v and %v", v.Type(), d.Type())
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("unsupported kind %v", v.Kind())
	}

	trimmed := make(map[string]interface{})
	for i := 0; i < v.NumField(); i++ {
		field := v.Type().Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Type.Kind() == reflect.Struct || field.Type.Kind() == reflect.Map {
			return fmt.Errorf("nested types are not supported: field %s", field.Name)
		}
		keep := inStringArray(field.Name, alwaysInclude) ||
			!reflect.DeepEqual(v.Field(i).Interface(), d.Field(i).Interface())
		if keep {
			trimmed[field.Name] = v.Field(i).Interface()
		}
	}

	return SaveObjectToFile(filename, trimmed, prettyFormat)
}

func inStringArray(item string, set []string) bool {
	for _, s := range set {
		if item == s {
			return true
		}
	}
	return false
}
