// +build windows

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shirou/w32"
	"gopkg.in/toast.v1"
)

const urlScheme = "drvbackup"
const toastErrorIcon = "resources\\error.png"
const toastSuccessIcon = "resources\\success.png"
const toastAppID = "cloudradar.drvbackup"

func getExecutablePath() string {
	ex, err := os.Executable()
	if err != nil {
		return ""
	}

	return filepath.Dir(ex)
}

func pushNotification(title, message, icon string, actions []toast.Action) error {
	msg := toast.Notification{
		AppID:    toastAppID,
		Title:    title,
		Message:  message,
		Duration: toast.Long, // last for 25sec
		Actions:  actions,
	}

	iconPath := getExecutablePath() + "\\" + icon
	if _, err := os.Stat(iconPath); err == nil {
		msg.Icon = iconPath
	}
	return msg.Push()
}

func sendErrorNotification(title, message string) error {
	return pushNotification(title, message, toastErrorIcon, []toast.Action{
		{Type: "protocol", Label: "Open config", Arguments: urlScheme + ":config"},
	})
}

func sendSuccessNotification(title, message string) error {
	return pushNotification(title, message, toastSuccessIcon, []toast.Action{})
}

// handleToastFeedback handles the URL scheme arguments of notification actions.
func handleToastFeedback(cfgPath string) {
	if len(os.Args) < 2 {
		return
	}

	switch os.Args[1] {
	case urlScheme + ":config":
		// hide console window
		console := w32.GetConsoleWindow()
		if console != 0 {
			w32.ShowWindow(console, w32.SW_HIDE)
		}
		_ = toastOpenConfig(cfgPath)
		os.Exit(0)
	}
}

func toastOpenConfig(cfgPath string) error {
	r := strings.NewReplacer("&", "^&")
	cfgPath = r.Replace(cfgPath)
	return exec.Command("cmd", "/C", "start", "", "notepad", cfgPath).Start()
}
