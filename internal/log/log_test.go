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
package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// TestSetLogger installs and exposes the process logger.
func TestSetLogger(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	installed := zap.New(core)

	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	SetLogger(installed)
	require.Same(t, installed, Logger())

	Logger().Info("hello")
	assert.Equal(t, 1, recorded.Len())
	assert.Equal(t, "hello", recorded.All()[0].Message)

	require.NoError(t, Sync())
}

// TestDefaultLogger is a no-op until the CLI installs a real one.
func TestDefaultLogger(t *testing.T) {
	require.NotNil(t, Logger())
	require.NoError(t, Sync())
}
