package model

// Version is the cmdtree release version.
var Version = "0.3.0"
