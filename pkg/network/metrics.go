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
	"github.com/ewoutp/playback-remote/pkg/metrics"
)

const (
	subSystem = "network"
)

var (
	// Total number of association attempts
	associationAttemptsTotal = metrics.MustRegisterCounter(subSystem,
		"association_attempts_total",
		"Total number of wireless association attempts")
	// Total number of failed association attempts
	associationFailuresTotal = metrics.MustRegisterCounter(subSystem,
		"association_failures_total",
		"Total number of failed wireless association attempts")
	// Association state
	associatedGauge = metrics.MustRegisterGauge(subSystem,
		"associated",
		"Wireless association state at the end of the bootstrap (0=NO, 1=YES)")
)
