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

package sender

import (
	"github.com/ewoutp/playback-remote/pkg/metrics"
)

const (
	subSystem = "sender"
)

var (
	// Total number of commands per outcome
	sendsTotal = metrics.MustRegisterCounterVec(subSystem,
		"sends_total",
		"Total number of commands per command and outcome",
		"command", "outcome")
	// Duration of command requests
	sendDuration = metrics.MustRegisterHistogramVec(subSystem,
		"send_duration_seconds",
		"Duration of command requests",
		"command")
)
