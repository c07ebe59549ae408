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
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	defaultSysRoot = "/sys"
)

// linkProbe checks the association state of a network interface.
type linkProbe struct {
	iface   string
	sysRoot string
	addrs   func(iface string) ([]net.Addr, error)
}

func newLinkProbe(iface string) linkProbe {
	return linkProbe{
		iface:   iface,
		sysRoot: defaultSysRoot,
		addrs:   interfaceAddrs,
	}
}

// Associated returns true when the interface is operationally up
// and has a global unicast address.
func (p linkProbe) Associated(ctx context.Context) (bool, error) {
	raw, err := os.ReadFile(filepath.Join(p.sysRoot, "class", "net", p.iface, "operstate"))
	if err != nil {
		return false, errors.Wrapf(err, "Cannot read operstate of '%s'", p.iface)
	}
	if strings.TrimSpace(string(raw)) != "up" {
		return false, nil
	}
	addrs, err := p.addrs(p.iface)
	if err != nil {
		return false, errors.Wrapf(err, "Cannot list addresses of '%s'", p.iface)
	}
	for _, a := range addrs {
		if ipNet, ok := a.(*net.IPNet); ok && ipNet.IP.IsGlobalUnicast() {
			return true, nil
		}
	}
	return false, nil
}

func interfaceAddrs(iface string) ([]net.Addr, error) {
	intf, err := net.InterfaceByName(iface)
	if err != nil {
		return nil, maskAny(err)
	}
	addrs, err := intf.Addrs()
	if err != nil {
		return nil, maskAny(err)
	}
	return addrs, nil
}
