// +build windows

package archive

const DefaultCommandLine = "expand -F:* {archive} {dir}"
