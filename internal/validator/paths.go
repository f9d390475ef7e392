// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package validator

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/tejzpr/mdx-mcp/internal/assetpath"
	"github.com/tejzpr/mdx-mcp/internal/report"
)

// osArtifacts are file and directory names left behind by operating systems
var osArtifacts = map[string]bool{
	".DS_Store":       true,
	".Spotlight-V100": true,
	".Trashes":        true,
	"Thumbs.db":       true,
	"desktop.ini":     true,
	"__MACOSX":        true,
}

func (r *run) checkPaths() {
	for _, f := range r.order {
		name := f.Name

		if strings.Contains(name, `\`) {
			r.add(report.Errorf(report.CodeBackslashPath, name, "path uses backslashes; archive paths must use forward slashes"))
		}
		if assetpath.EscapesRoot(name) {
			r.add(report.Errorf(report.CodeUnsafePath, name, "path resolves outside the archive root"))
		}
		if len(name) > r.opts.MaxPathLength {
			r.add(report.Warningf(report.CodePathTooLong, name, "path is %d characters, longer than %d", len(name), r.opts.MaxPathLength))
		}

		artifact, dotfile := "", ""
		for _, segment := range strings.Split(strings.ReplaceAll(name, `\`, "/"), "/") {
			if segment == "" || segment == "." || segment == ".." {
				continue
			}
			if osArtifacts[segment] {
				artifact = segment
				break
			}
			if dotfile == "" && strings.HasPrefix(segment, ".") {
				dotfile = segment
			}
		}
		switch {
		case artifact != "":
			r.add(report.Warningf(report.CodeOSArtifact, name, "operating system artifact %s should not be packaged", artifact))
		case dotfile != "":
			r.add(report.Infof(report.CodeDotfile, name, "hidden file %s", dotfile))
		}

		if !f.FileInfo().IsDir() && assetpath.IsAssetPath(name) && f.UncompressedSize64 > uint64(r.opts.MaxAssetBytes) {
			r.add(report.Infof(report.CodeLargeAsset, name, "asset is %s, above the %s threshold",
				humanize.IBytes(f.UncompressedSize64), humanize.IBytes(uint64(r.opts.MaxAssetBytes))))
		}
	}
}
