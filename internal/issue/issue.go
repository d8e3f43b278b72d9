// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies an entry of the issue catalog.
type Id int

const (
	NotAbsoluteId Id = iota + 1
	TrailingSeparatorId
	IllegalPatternId
	WrongTypeId
	SymlinkInPathId
	NotFoundId
	SystemErrorId
	UnknownWidgetId
	BinaryFileId
	UnknownCompressionId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

// Renderer turns Markdown into terminal output.
type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

// Issue is a catalog entry: Markdown guidance plus optional reference links.
type Issue struct {
	id       Id
	title    string
	mdMsg    MarkdownMsg
	extLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

// Title is the one-line summary of the issue.
func (i *Issue) Title() string {
	return i.title
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Markdown returns the full document: title, body and links.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString("# " + i.title + "\n")
	sb.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

// Render renders the issue with a glamour style such as "dark", "light" or "notty".
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	catalog = []*Issue{
		{
			id:    NotAbsoluteId,
			title: "Path is not absolute",
			mdMsg: `
Every path must begin with a ` + "`/`" + `. Relative paths are resolved against
the current directory, which an attacker may control.

## Things you can try
- Spell the path out from the root, for example ` + "`/var/log/messages`" + `.`,
		},
		{
			id:    TrailingSeparatorId,
			title: "Path ends with a separator",
			mdMsg: `
A trailing ` + "`/`" + ` forces the kernel to resolve the leaf as a directory and
follow it if it is a symlink.

## Things you can try
- Drop the final ` + "`/`" + `.`,
		},
		{
			id:    IllegalPatternId,
			title: "Path contains an illegal pattern",
			mdMsg: `
The sequences ` + "`..`, `./`, `/.` and `//`" + ` are refused anywhere in a path.
They allow a path to escape the directory it appears to name, and they make
audit logs ambiguous. Hidden files such as ` + "`/home/user/.profile`" + ` are
refused for the same reason.

## Things you can try
- Resolve the path yourself and pass the canonical form.`,
		},
		{
			id:    WrongTypeId,
			title: "Path names the wrong kind of object",
			mdMsg: `
The leaf is not the kind of object the widget works on, or it is a symbolic link.
File widgets accept regular files only; directory widgets accept directories only.
Device nodes, sockets and FIFOs are always refused.

## Things you can try
- For a directory, use ` + "`pathcheck -d`" + ` or ` + "`rmdir`" + `.
- For a symlink, operate on its target directly.`,
		},
		{
			id:    SymlinkInPathId,
			title: "Path contains a symbolic link",
			mdMsg: `
One of the directories leading to the leaf is a symbolic link. Whoever can
rewrite that link decides which file is really opened.

## Things you can try
- Find the real location with ` + "`readlink -f`" + ` and pass that path instead.`,
			extLinks: []HttpLink{"https://man7.org/linux/man-pages/man7/symlink.7.html"},
		},
		{
			id:    NotFoundId,
			title: "Path does not exist",
			mdMsg: `
The leaf, or one of the directories leading to it, does not exist.

## Things you can try
- Check the spelling of each component.`,
		},
		{
			id:    SystemErrorId,
			title: "Path could not be inspected",
			mdMsg: `
The filesystem refused to describe the path, most often because a directory
along it is not searchable by the current user.

## Things you can try
- Check the permissions of every directory along the path.`,
		},
		{
			id:    UnknownWidgetId,
			title: "Unknown or ambiguous widget",
			mdMsg: `
The requested widget name matched no widget, or its longest common prefix is
shared by more than one widget.

## Things you can try
- Run ` + "`securecoreutils --help`" + ` for the list of widgets.
- Type more of the name so that it is unambiguous.`,
		},
		{
			id:    BinaryFileId,
			title: "File is not text",
			mdMsg: `
` + "`cat`" + ` only prints files whose first bytes are printable text, so that a
terminal is never fed control sequences.

## Things you can try
- If the file is compressed, use ` + "`zcat`" + `.`,
		},
		{
			id:    UnknownCompressionId,
			title: "Compression format not recognized",
			mdMsg: `
` + "`zcat`" + ` recognizes gzip, bzip2, xz, lz4, zstd and compress (.Z) by their
magic bytes. The file matched none of them, or its format is disabled in the
configuration.

## Things you can try
- Check ` + "`zcat.codecs`" + ` in the configuration file.`,
		},
		{
			id:    ConfigLoadFailedId,
			title: "Configuration could not be loaded",
			mdMsg: `
The configuration file is held to the same path rules as widget arguments and is
validated against the built-in schema.

## Things you can try
- Make sure the path to the file contains no symbolic link.
- Set ` + "`SECURECOREUTILS_CONFIG`" + ` to an absolute path, or unset it.`,
		},
	}
)

// Get returns the issue for id, or nil if there is none.
func Get(id Id) *Issue {
	i := slices.IndexFunc(catalog, func(is *Issue) bool { return is.id == id })
	if i < 0 {
		return nil
	}
	return catalog[i]
}
