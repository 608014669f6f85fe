// Copyright 2026 Datalore Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValue_Display covers the display form per kind.
func TestValue_Display(t *testing.T) {
	assert.Equal(t, "NULL", Null().Display())
	assert.Equal(t, "hello", String("hello").Display())
	assert.Equal(t, "-42", Int(-42).Display())
	assert.Equal(t, "3.14", Decimal(decimal.RequireFromString("3.14")).Display())
}

// TestValue_Numeric converts integer and decimal cells, rejects the rest.
func TestValue_Numeric(t *testing.T) {
	d, ok := Int(7).Numeric()
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(7)))

	d, ok = Decimal(decimal.RequireFromString("1.5")).Numeric()
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("1.5")))

	_, ok = String("7").Numeric()
	assert.False(t, ok)
	_, ok = Null().Numeric()
	assert.False(t, ok)
}

// TestValue_Equal compares within and across kinds.
func TestValue_Equal(t *testing.T) {
	assert.True(t, Int(1).Equal(Int(1)))
	assert.False(t, Int(1).Equal(Int(2)))
	assert.True(t, Null().Equal(Null()))
	assert.False(t, Int(1).Equal(String("1")), "kinds never compare equal across the domain")

	// Decimal equality is numeric, not representational.
	a := Decimal(decimal.RequireFromString("1.50"))
	b := Decimal(decimal.RequireFromString("1.5"))
	assert.True(t, a.Equal(b))
}
