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
	"sync"
)

// VirtualStation is a station without hardware, used for tests
// and desktop runs.
type VirtualStation struct {
	mutex          sync.Mutex
	associated     bool
	pending        bool
	polls          int
	associateAfter int
	joins          int
	joinErr        error
	ssid           string
}

var _ Station = &VirtualStation{}

// NewVirtualStation creates a virtual station with given initial
// association state.
func NewVirtualStation(associated bool) *VirtualStation {
	return &VirtualStation{associated: associated}
}

// SetAssociated changes the association state.
func (s *VirtualStation) SetAssociated(associated bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.associated = associated
	s.pending = false
}

// SetJoinError makes all following joins fail with given error.
func (s *VirtualStation) SetJoinError(err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.joinErr = err
}

// AssociateAfter sets the number of association polls after a join
// before the station reports being associated. Negative values mean never.
func (s *VirtualStation) AssociateAfter(polls int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.associateAfter = polls
}

// Joins returns the number of join requests.
func (s *VirtualStation) Joins() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.joins
}

// SSID returns the SSID of the last successful join.
func (s *VirtualStation) SSID() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ssid
}

// Join starts associating with the network with given SSID.
func (s *VirtualStation) Join(ctx context.Context, ssid, passphrase string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.joins++
	if s.joinErr != nil {
		return s.joinErr
	}
	s.ssid = ssid
	if !s.associated {
		s.pending = true
		s.polls = 0
	}
	return nil
}

// Associated returns the current association state.
func (s *VirtualStation) Associated(ctx context.Context) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.pending && s.associateAfter >= 0 {
		s.polls++
		if s.polls > s.associateAfter {
			s.associated = true
			s.pending = false
		}
	}
	return s.associated, nil
}
