// Package format canonicalizes user-supplied format extensions and file
// names. All format-equality checks elsewhere in convertx compare the
// canonical tokens produced here.
package format
