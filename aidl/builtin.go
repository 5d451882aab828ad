package aidl

type BuiltinKind int

const (
	BuiltinNone BuiltinKind = iota
	BuiltinIBinder
	BuiltinFileDescriptor
	BuiltinParcelFileDescriptor
	BuiltinParcelableHolder
)

func (k BuiltinKind) String() string {
	switch k {
	case BuiltinIBinder:
		return "IBinder"
	case BuiltinFileDescriptor:
		return "FileDescriptor"
	case BuiltinParcelFileDescriptor:
		return "ParcelFileDescriptor"
	case BuiltinParcelableHolder:
		return "ParcelableHolder"
	}
	return ""
}

// QualifiedName returns the canonical qualified name of the builtin, the
// name under which it appears in the resolved-name set.
func (k BuiltinKind) QualifiedName() string {
	switch k {
	case BuiltinIBinder:
		return "android.os.IBinder"
	case BuiltinFileDescriptor:
		return "java.io.FileDescriptor"
	case BuiltinParcelFileDescriptor:
		return "android.os.ParcelFileDescriptor"
	case BuiltinParcelableHolder:
		return "android.os.ParcelableHolder"
	}
	return ""
}

var builtinsByBareName = map[string]BuiltinKind{
	"IBinder":              BuiltinIBinder,
	"FileDescriptor":       BuiltinFileDescriptor,
	"ParcelFileDescriptor": BuiltinParcelFileDescriptor,
	"ParcelableHolder":     BuiltinParcelableHolder,
}

var builtinsByQualifiedName = map[string]BuiltinKind{
	"android.os.IBinder":              BuiltinIBinder,
	"java.io.FileDescriptor":          BuiltinFileDescriptor,
	"android.os.ParcelFileDescriptor": BuiltinParcelFileDescriptor,
	"android.os.ParcelableHolder":     BuiltinParcelableHolder,
}

// LookupBuiltin matches a type name against the platform builtin catalog,
// by bare name or by canonical qualified name.
func LookupBuiltin(name string) (BuiltinKind, bool) {
	if k, ok := builtinsByBareName[name]; ok {
		return k, true
	}
	if k, ok := builtinsByQualifiedName[name]; ok {
		return k, true
	}
	return BuiltinNone, false
}

// IsBuiltinQualifiedName reports whether name is the canonical qualified
// name of a platform builtin.
func IsBuiltinQualifiedName(name string) bool {
	_, ok := builtinsByQualifiedName[name]
	return ok
}
