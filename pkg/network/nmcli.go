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
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

type nmcliStation struct {
	linkProbe
	command string
}

// NewNMCLIStation creates a station that joins networks through
// NetworkManager on the given wireless interface.
func NewNMCLIStation(iface string) Station {
	return &nmcliStation{
		linkProbe: newLinkProbe(iface),
		command:   "nmcli",
	}
}

// Join starts associating with the network with given SSID.
func (s *nmcliStation) Join(ctx context.Context, ssid, passphrase string) error {
	args := []string{"device", "wifi", "connect", ssid}
	if passphrase != "" {
		args = append(args, "password", passphrase)
	}
	args = append(args, "ifname", s.iface)
	out, err := exec.CommandContext(ctx, s.command, args...).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "nmcli connect to '%s' failed: %s", ssid, strings.TrimSpace(string(out)))
	}
	return nil
}

type managedStation struct {
	linkProbe
}

// NewManagedStation creates a station for an interface that is
// associated by the operating system. Join does nothing.
func NewManagedStation(iface string) Station {
	return &managedStation{
		linkProbe: newLinkProbe(iface),
	}
}

// Join is a no-op, association is managed outside the remote.
func (s *managedStation) Join(ctx context.Context, ssid, passphrase string) error {
	return nil
}
