package web

import "embed"

// StaticFS embeds the dashboard: index.html plus its script and stylesheet.
//
//go:embed static/*
var StaticFS embed.FS
