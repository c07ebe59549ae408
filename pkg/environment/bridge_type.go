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

package environment

import "strings"

const (
	BridgePeriph  = "periph"
	BridgeSysfs   = "sysfs"
	BridgeVirtual = "virtual"
)

// bridgeTypeFor selects a bridge type from a kernel release and machine name.
func bridgeTypeFor(release, machine string) string {
	switch {
	case strings.Contains(release, "sunxi"):
		return BridgeSysfs
	case strings.HasPrefix(machine, "arm"), strings.HasPrefix(machine, "aarch64"):
		return BridgePeriph
	default:
		return BridgeVirtual
	}
}
