// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"
	"math"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/larder/core"
)

// rowVersion prefixes every encoded row.
const rowVersion = 1

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	return core.ID(v), err
}

// MarshalRawRecipe serializes a RawRecipe to bytes.
func MarshalRawRecipe(row *core.RawRecipe) []byte {
	var e encoder
	e.encode(row)
	e.buf = make([]byte, e.n)
	e.n = 0
	e.encode(row)
	return e.buf
}

// UnmarshalRawRecipe deserializes a RawRecipe from bytes.
func UnmarshalRawRecipe(data []byte) (*core.RawRecipe, error) {
	d := decoder{buf: data}
	if v := d.readInt(); d.err == nil && v != rowVersion {
		return nil, fmt.Errorf("%w: unknown row version %d", ErrSerializationFailed, v)
	}
	row := &core.RawRecipe{}
	row.ID = core.ID(d.readUint64())
	row.Title = d.readString()
	row.Image = d.readString()
	row.DescriptionHook = d.readString()
	row.CuisineTags = d.readString()
	row.DietTags = d.readString()
	row.AllergenTags = d.readString()
	row.TimeMinutes = d.readInt()
	row.SpiceLevel = d.readInt()
	row.Difficulty = d.readString()
	row.BudgetLevel = d.readString()
	row.Calories = d.readOptInt()
	row.Rating = d.readFloat64()
	row.ReviewCount = d.readOptInt()
	row.IngredientsJSON = d.readString()
	row.StepsJSON = d.readString()
	row.Servings = d.readInt()
	row.Popularity = d.readFloat64()
	if d.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, d.err)
	}
	return row, nil
}

// encoder runs twice: with a nil buf it only sizes, then it writes.
type encoder struct {
	buf []byte
	n   int
}

func (e *encoder) encode(row *core.RawRecipe) {
	e.putInt(rowVersion)
	e.putUint64(uint64(row.ID))
	e.putString(row.Title)
	e.putString(row.Image)
	e.putString(row.DescriptionHook)
	e.putString(row.CuisineTags)
	e.putString(row.DietTags)
	e.putString(row.AllergenTags)
	e.putInt(row.TimeMinutes)
	e.putInt(row.SpiceLevel)
	e.putString(row.Difficulty)
	e.putString(row.BudgetLevel)
	e.putOptInt(row.Calories)
	e.putFloat64(row.Rating)
	e.putOptInt(row.ReviewCount)
	e.putString(row.IngredientsJSON)
	e.putString(row.StepsJSON)
	e.putInt(row.Servings)
	e.putFloat64(row.Popularity)
}

func (e *encoder) putString(v string) {
	if e.buf == nil {
		e.n += ord.String.Size(v)
		return
	}
	e.n += ord.String.Marshal(v, e.buf[e.n:])
}

func (e *encoder) putInt(v int) {
	if e.buf == nil {
		e.n += varint.Int.Size(v)
		return
	}
	e.n += varint.Int.Marshal(v, e.buf[e.n:])
}

func (e *encoder) putUint64(v uint64) {
	if e.buf == nil {
		e.n += varint.Uint64.Size(v)
		return
	}
	e.n += varint.Uint64.Marshal(v, e.buf[e.n:])
}

func (e *encoder) putBool(v bool) {
	if e.buf == nil {
		e.n += ord.Bool.Size(v)
		return
	}
	e.n += ord.Bool.Marshal(v, e.buf[e.n:])
}

func (e *encoder) putFloat64(v float64) {
	e.putUint64(math.Float64bits(v))
}

func (e *encoder) putOptInt(v *int) {
	e.putBool(v != nil)
	if v != nil {
		e.putInt(*v)
	}
}

// decoder stops at the first error; later reads return zero values.
type decoder struct {
	buf []byte
	n   int
	err error
}

func (d *decoder) readString() (v string) {
	if d.err != nil {
		return
	}
	var n int
	v, n, d.err = ord.String.Unmarshal(d.buf[d.n:])
	d.n += n
	return
}

func (d *decoder) readInt() (v int) {
	if d.err != nil {
		return
	}
	var n int
	v, n, d.err = varint.Int.Unmarshal(d.buf[d.n:])
	d.n += n
	return
}

func (d *decoder) readUint64() (v uint64) {
	if d.err != nil {
		return
	}
	var n int
	v, n, d.err = varint.Uint64.Unmarshal(d.buf[d.n:])
	d.n += n
	return
}

func (d *decoder) readBool() (v bool) {
	if d.err != nil {
		return
	}
	var n int
	v, n, d.err = ord.Bool.Unmarshal(d.buf[d.n:])
	d.n += n
	return
}

func (d *decoder) readFloat64() float64 {
	return math.Float64frombits(d.readUint64())
}

func (d *decoder) readOptInt() *int {
	if !d.readBool() {
		return nil
	}
	v := d.readInt()
	if d.err != nil {
		return nil
	}
	return &v
}
