// Package domain defines the Git object graph entities the clients operate on.
// All identifiers (shas, numbers, comment IDs) are assigned by the remote
// service; local code never mints them.
package domain

import "time"

// BlobEncoding is the content encoding accepted when creating a blob.
type BlobEncoding string

const (
	EncodingUTF8   BlobEncoding = "utf-8"
	EncodingBase64 BlobEncoding = "base64"
)

// Valid reports whether the encoding is one the service accepts.
func (e BlobEncoding) Valid() bool {
	return e == EncodingUTF8 || e == EncodingBase64
}

// Blob is raw file content addressed by a server-assigned content hash.
// The sha is immutable once assigned.
type Blob struct {
	SHA      string
	Content  string
	Encoding BlobEncoding
}

// TreeEntryType distinguishes blob entries from nested trees.
type TreeEntryType string

const (
	EntryBlob TreeEntryType = "blob"
	EntryTree TreeEntryType = "tree"
)

// File modes as the git protocol spells them.
const (
	ModeFile       = "100644"
	ModeExecutable = "100755"
	ModeSubdir     = "040000"
)

// TreeEntry maps a path within a tree to a previously created object sha.
// Paths must be unique within a single tree.
type TreeEntry struct {
	Path string
	Mode string
	Type TreeEntryType
	SHA  string
}

// Tree is an ordered directory listing. The sha is derived from the contents
// by the server.
type Tree struct {
	SHA     string
	Entries []TreeEntry
}

// Commit is an immutable snapshot referencing one tree and zero or more
// parent commits. Parent links form the history graph.
type Commit struct {
	SHA        string
	Message    string
	TreeSHA    string
	ParentSHAs []string
	AuthoredAt time.Time
}

// Reference is a named mutable pointer to a commit, e.g. "heads/master".
// Updating a reference replaces the target sha; it never rewrites history.
type Reference struct {
	Ref string
	SHA string
}

// PullRequest is a proposed merge of a head reference into a base reference.
// The number is assigned at creation and immutable thereafter.
type PullRequest struct {
	Number  int
	Title   string
	Body    string
	Head    string
	Base    string
	State   string
	HeadSHA string
}

// Repository identifies a remote repository by owner and name.
type Repository struct {
	Owner         string
	Name          string
	DefaultBranch string
	Private       bool
}

// FullName returns the "owner/name" form used in API paths.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}
