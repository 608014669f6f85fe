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
// Package log holds the process-wide logger installed by the CLI.
// Library packages do not reach for this global; they receive a
// *zap.Logger through their Config and default to a no-op.
package log

import (
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// Logger returns the process logger.
func Logger() *zap.Logger {
	return logger
}

// SetLogger installs the process logger. Call once at startup, before
// any collaborator captures it.
func SetLogger(l *zap.Logger) {
	logger = l
}

// Sync flushes any buffered log entries.
func Sync() error {
	return logger.Sync()
}
