// Package plan holds the structured action plan extracted from a model
// response and the parser that produces it.
package plan

// ActionType is the wire tag carried in the "action_type" field.
type ActionType string

const (
	TypeCreateFile ActionType = "create_file"
	TypeWriteFile  ActionType = "write_file"
	TypeAppendFile ActionType = "append_file"
	TypeReadFile   ActionType = "read_file"
	TypeDeleteFile ActionType = "delete_file"
	TypeCreateDir  ActionType = "create_dir"
	TypeMoveFile   ActionType = "move_file"
	TypeCopyFile   ActionType = "copy_file"
	TypeListDir    ActionType = "list_dir"
)

// Types lists every known action tag in presentation order.
var Types = []ActionType{
	TypeCreateFile,
	TypeWriteFile,
	TypeAppendFile,
	TypeReadFile,
	TypeDeleteFile,
	TypeCreateDir,
	TypeMoveFile,
	TypeCopyFile,
	TypeListDir,
}

// Plan is the parsed model response. It is not modified after parsing.
type Plan struct {
	Explanation string
	Actions     []Action
}

// Action is a closed set: only the types in this package implement it.
type Action interface {
	Type() ActionType
	// Paths returns the untrusted path fields in declaration order.
	Paths() []string
	// ConfirmHint reports the model's "confirm" flag for destructive steps.
	ConfirmHint() bool
	isAction()
}

// Hint carries the optional fields shared by every action.
type Hint struct {
	Confirm bool
}

func (h Hint) ConfirmHint() bool { return h.Confirm }

// CreateFile creates a file, optionally with content. Existing files are
// only replaced when the confirm policy allows it.
type CreateFile struct {
	Hint
	Path    string
	Content *string
}

// WriteFile overwrites a file unconditionally.
type WriteFile struct {
	Hint
	Path    string
	Content string
}

// AppendFile appends to an existing file. Create allows a missing target.
type AppendFile struct {
	Hint
	Path    string
	Content string
	Create  bool
}

type ReadFile struct {
	Hint
	Path string
}

type DeleteFile struct {
	Hint
	Path string
}

// CreateDir is idempotent.
type CreateDir struct {
	Hint
	Path string
}

type MoveFile struct {
	Hint
	FromPath string
	ToPath   string
}

type CopyFile struct {
	Hint
	FromPath string
	ToPath   string
}

type ListDir struct {
	Hint
	Path string
}

func (CreateFile) Type() ActionType { return TypeCreateFile }
func (WriteFile) Type() ActionType  { return TypeWriteFile }
func (AppendFile) Type() ActionType { return TypeAppendFile }
func (ReadFile) Type() ActionType   { return TypeReadFile }
func (DeleteFile) Type() ActionType { return TypeDeleteFile }
func (CreateDir) Type() ActionType  { return TypeCreateDir }
func (MoveFile) Type() ActionType   { return TypeMoveFile }
func (CopyFile) Type() ActionType   { return TypeCopyFile }
func (ListDir) Type() ActionType    { return TypeListDir }

func (a CreateFile) Paths() []string { return []string{a.Path} }
func (a WriteFile) Paths() []string  { return []string{a.Path} }
func (a AppendFile) Paths() []string { return []string{a.Path} }
func (a ReadFile) Paths() []string   { return []string{a.Path} }
func (a DeleteFile) Paths() []string { return []string{a.Path} }
func (a CreateDir) Paths() []string  { return []string{a.Path} }
func (a MoveFile) Paths() []string   { return []string{a.FromPath, a.ToPath} }
func (a CopyFile) Paths() []string   { return []string{a.FromPath, a.ToPath} }
func (a ListDir) Paths() []string    { return []string{a.Path} }

func (CreateFile) isAction() {}
func (WriteFile) isAction()  {}
func (AppendFile) isAction() {}
func (ReadFile) isAction()   {}
func (DeleteFile) isAction() {}
func (CreateDir) isAction()  {}
func (MoveFile) isAction()   {}
func (CopyFile) isAction()   {}
func (ListDir) isAction()    {}

// Known reports whether t is one of the defined action tags.
func Known(t ActionType) bool {
	for _, k := range Types {
		if k == t {
			return true
		}
	}
	return false
}
