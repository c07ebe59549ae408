// Copyright 2026 Ewout Prangsma
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
//
// Author Ewout Prangsma
//

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "remote.log")
	log, closer, err := New(Config{Level: "info", File: path, Console: &console})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Info().Msg("Connected to Wi-Fi")
	log.Debug().Msg("hidden")
	closer.Close()

	if !strings.Contains(console.String(), "Connected to Wi-Fi") {
		t.Errorf("Expected message on console, got '%s'", console.String())
	}
	if strings.Contains(console.String(), "hidden") {
		t.Error("Did not expect debug message")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(raw), "Connected to Wi-Fi") {
		t.Errorf("Expected message in file, got '%s'", string(raw))
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("Expected error for invalid level")
	}
}
