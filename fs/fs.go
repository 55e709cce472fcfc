// Package appfs embeds the static assets shipped with the binaries.
package appfs

import "embed"

//go:embed migrations/*.sql data/*.yaml templates/email/*
var FS embed.FS
