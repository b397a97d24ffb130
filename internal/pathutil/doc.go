// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

// Package pathutil provides filesystem path safety helpers for oashttpguard's
// CLI.
//
// [SanitizeOutputPath] validates and cleans an output file path before the
// CLI writes a validation report to it. It rejects directory traversal
// ("..") and symlinks:
//
//	safe, err := pathutil.SanitizeOutputPath(userProvidedPath)
//	if err != nil {
//	    return err // path traversal or symlink detected
//	}
package pathutil
