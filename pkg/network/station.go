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

package network

import (
	"context"

	"github.com/pkg/errors"
)

var (
	maskAny = errors.WithStack
)

// Station is the wireless interface of the remote.
type Station interface {
	// Join starts associating with the network with given SSID.
	// It does not wait for the association to complete.
	Join(ctx context.Context, ssid, passphrase string) error
	// Associated returns true when the station is associated with a
	// network and ready to send traffic.
	Associated(ctx context.Context) (bool, error)
}
