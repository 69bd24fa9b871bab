// This file is part of Gophersynth.
//
// Gophersynth is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gophersynth is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gophersynth.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"sync"

	"github.com/jetsetilly/gophersynth/logger"
	"github.com/jetsetilly/gophersynth/notifications"
)

// notifier implements the notifications.Notify interface for the main device.
type notifier struct {
	ready     chan struct{}
	readyOnce sync.Once
}

func newNotifier() *notifier {
	return &notifier{
		ready: make(chan struct{}),
	}
}

// Notify implements the notifications.Notify interface.
func (n *notifier) Notify(notice notifications.Notice) error {
	logger.Log(logger.Allow, "notice", string(notice))

	switch notice {
	case notifications.NotifyDeviceReady:
		n.readyOnce.Do(func() {
			close(n.ready)
		})
	}

	return nil
}
