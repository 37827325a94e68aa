// +build !windows

package archive

const DefaultCommandLine = "cabextract -d {dir} {archive}"
