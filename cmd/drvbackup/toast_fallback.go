// +build !windows

package main

import (
	"github.com/pkg/errors"
)

var errNotificationsUnsupported = errors.New("notifications are implemented only for Windows")

func sendErrorNotification(title, message string) error {
	return errNotificationsUnsupported
}

func sendSuccessNotification(title, message string) error {
	return errNotificationsUnsupported
}

func handleToastFeedback(cfgPath string) {
	// only for windows
}
