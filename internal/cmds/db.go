package cmds

import "strings"

// DB maps command names (case-insensitive) to their argument grammars.
// The parser queries it once per statement; it is never mutated during a
// parse.
type DB struct {
	specs map[string]*Spec
}

// NewDB returns an empty database
func NewDB() *DB {
	return &DB{specs: make(map[string]*Spec)}
}

// Add registers or replaces the grammar for a command
func (db *DB) Add(name string, spec *Spec) {
	db.specs[strings.ToLower(name)] = spec
}

// Lookup returns the grammar for a command. Absence is not an error: the
// parser falls back to a generic anyN-positionals grammar.
func (db *DB) Lookup(name string) (*Spec, bool) {
	spec, ok := db.specs[strings.ToLower(name)]
	return spec, ok
}

// Known reports whether the command has a registered grammar. The formatter
// uses this for canonical command casing.
func (db *DB) Known(name string) bool {
	_, ok := db.specs[strings.ToLower(name)]
	return ok
}

// Names returns all registered command names (lower case, unsorted)
func (db *DB) Names() []string {
	names := make([]string, 0, len(db.specs))
	for name := range db.specs {
		names = append(names, name)
	}
	return names
}

// shorthands for the builtin table below
var (
	one  = Exactly(1)
	many = OneOrMore
	anyN = ZeroOrMore
)

func p(a Arity, flags ...string) *Spec { return Positional(a, flags...) }
func sortable(a Arity, flags ...string) *Spec { return SortablePositional(a, flags...) }
func kw(kwargs map[string]*Spec) map[string]*Spec { return kwargs }

// installTargetKind is the nested grammar shared by the per-kind blocks of
// install(TARGETS ...): RUNTIME, LIBRARY, ARCHIVE and friends.
func installTargetKind() *Spec {
	return Standard(anyN, kw(map[string]*Spec{
		"DESTINATION":    p(one),
		"COMPONENT":      p(one),
		"PERMISSIONS":    p(anyN),
		"CONFIGURATIONS": p(anyN),
	}), "OPTIONAL", "EXCLUDE_FROM_ALL", "NAMELINK_ONLY", "NAMELINK_SKIP")
}

// targetScopeKwargs is the INTERFACE/PUBLIC/PRIVATE trio shared by the
// target_* family.
func targetScopeKwargs() map[string]*Spec {
	return kw(map[string]*Spec{
		"INTERFACE": sortable(anyN),
		"PUBLIC":    sortable(anyN),
		"PRIVATE":   sortable(anyN),
	})
}

// Default returns the builtin grammar database for the common cmake
// commands. Commands not listed here parse with the generic fallback.
func Default() *DB {
	db := NewDB()

	db.Add("add_compile_definitions", Standard(anyN, nil))
	db.Add("add_compile_options", Standard(anyN, nil))
	db.Add("add_custom_command", Standard(anyN, kw(map[string]*Spec{
		"OUTPUT":            p(many),
		"COMMAND":           p(many),
		"MAIN_DEPENDENCY":   p(one),
		"DEPENDS":           p(anyN),
		"BYPRODUCTS":        p(anyN),
		"IMPLICIT_DEPENDS":  p(anyN),
		"WORKING_DIRECTORY": p(one),
		"COMMENT":           p(one),
		"DEPFILE":           p(one),
		"JOB_POOL":          p(one),
		"TARGET":            p(one),
	}), "APPEND", "VERBATIM", "USES_TERMINAL", "COMMAND_EXPAND_LISTS",
		"PRE_BUILD", "PRE_LINK", "POST_BUILD"))
	db.Add("add_custom_target", Standard(one, kw(map[string]*Spec{
		"COMMAND":           p(many),
		"DEPENDS":           p(anyN),
		"BYPRODUCTS":        p(anyN),
		"WORKING_DIRECTORY": p(one),
		"COMMENT":           p(one),
		"JOB_POOL":          p(one),
		"SOURCES":           sortable(anyN),
	}), "ALL", "VERBATIM", "USES_TERMINAL"))
	db.Add("add_definitions", Standard(anyN, nil))
	db.Add("add_dependencies", Standard(many, nil))
	db.Add("add_executable", Standard(many, nil,
		"WIN32", "MACOSX_BUNDLE", "EXCLUDE_FROM_ALL", "IMPORTED", "GLOBAL", "ALIAS"))
	db.Add("add_library", Standard(many, nil,
		"STATIC", "SHARED", "MODULE", "OBJECT", "INTERFACE", "ALIAS",
		"IMPORTED", "GLOBAL", "EXCLUDE_FROM_ALL"))
	db.Add("add_subdirectory", Standard(anyN, nil, "EXCLUDE_FROM_ALL", "SYSTEM"))
	db.Add("add_test", Standard(anyN, kw(map[string]*Spec{
		"NAME":              p(one),
		"COMMAND":           p(many),
		"CONFIGURATIONS":    p(anyN),
		"WORKING_DIRECTORY": p(one),
	}), "COMMAND_EXPAND_LISTS"))
	db.Add("aux_source_directory", Standard(Exactly(2), nil))
	db.Add("break", Standard(anyN, nil))
	db.Add("cmake_minimum_required", Standard(anyN, kw(map[string]*Spec{
		"VERSION": p(one),
	}), "FATAL_ERROR"))
	db.Add("cmake_policy", Standard(anyN, kw(map[string]*Spec{
		"SET":     p(Exactly(2)),
		"GET":     p(Exactly(2)),
		"VERSION": p(one),
	}), "PUSH", "POP"))
	db.Add("configure_file", Standard(Exactly(2), kw(map[string]*Spec{
		"NEWLINE_STYLE": p(one),
	}), "COPYONLY", "ESCAPE_QUOTES", "@ONLY"))
	db.Add("continue", Standard(anyN, nil))
	db.Add("enable_language", Standard(many, nil))
	db.Add("enable_testing", Standard(anyN, nil))
	db.Add("execute_process", Standard(anyN, kw(map[string]*Spec{
		"COMMAND":           p(many),
		"WORKING_DIRECTORY": p(one),
		"TIMEOUT":           p(one),
		"RESULT_VARIABLE":   p(one),
		"RESULTS_VARIABLE":  p(one),
		"OUTPUT_VARIABLE":   p(one),
		"ERROR_VARIABLE":    p(one),
		"INPUT_FILE":        p(one),
		"OUTPUT_FILE":       p(one),
		"ERROR_FILE":        p(one),
	}), "OUTPUT_QUIET", "ERROR_QUIET",
		"OUTPUT_STRIP_TRAILING_WHITESPACE", "ERROR_STRIP_TRAILING_WHITESPACE"))
	db.Add("file", Standard(many, kw(map[string]*Spec{
		"DESTINATION": p(one),
		"PERMISSIONS": p(anyN),
		"RELATIVE":    p(one),
		"REGEX":       p(one),
	}), "FOLLOW_SYMLINKS", "GENERATE", "UTF-8", "HEX", "NEWLINE_CONSUME",
		"NO_HEX_CONVERSION", "SHOW_PROGRESS"))
	db.Add("find_file", findSpec())
	db.Add("find_library", findSpec())
	db.Add("find_package", Standard(anyN, kw(map[string]*Spec{
		"COMPONENTS":          sortable(anyN),
		"OPTIONAL_COMPONENTS": sortable(anyN),
		"NAMES":               p(anyN),
		"HINTS":               p(anyN),
		"PATHS":               p(anyN),
		"PATH_SUFFIXES":       p(anyN),
	}), "EXACT", "QUIET", "MODULE", "REQUIRED", "CONFIG", "NO_MODULE",
		"NO_POLICY_SCOPE", "GLOBAL"))
	db.Add("find_path", findSpec())
	db.Add("find_program", findSpec())
	db.Add("foreach", Standard(many, kw(map[string]*Spec{
		"RANGE":     p(many),
		"IN":        Standard(anyN, kw(map[string]*Spec{
			"LISTS":     p(anyN),
			"ITEMS":     p(anyN),
			"ZIP_LISTS": p(anyN),
		})),
	})))
	db.Add("function", Standard(many, nil))
	db.Add("get_directory_property", Standard(many, kw(map[string]*Spec{
		"DIRECTORY":  p(one),
		"DEFINITION": p(one),
	})))
	db.Add("get_filename_component", Standard(many, kw(map[string]*Spec{
		"BASE_DIR":     p(one),
		"PROGRAM_ARGS": p(one),
	}), "CACHE", "ABSOLUTE", "DIRECTORY", "EXT", "NAME", "NAME_WE", "PATH",
		"PROGRAM", "REALPATH", "LAST_EXT", "NAME_WLE"))
	db.Add("get_property", Standard(one, kw(map[string]*Spec{
		"TARGET":    p(one),
		"SOURCE":    p(one),
		"DIRECTORY": p(ZeroOrOne),
		"INSTALL":   p(one),
		"TEST":      p(one),
		"CACHE":     p(one),
		"PROPERTY":  p(one),
	}), "GLOBAL", "VARIABLE", "SET", "DEFINED", "BRIEF_DOCS", "FULL_DOCS"))
	db.Add("get_target_property", Standard(Exactly(3), nil))
	db.Add("include", Standard(one, kw(map[string]*Spec{
		"RESULT_VARIABLE": p(one),
	}), "OPTIONAL", "NO_POLICY_SCOPE"))
	db.Add("include_directories", Standard(ZeroOrMore, nil, "AFTER", "BEFORE", "SYSTEM"))
	db.Add("install", Standard(anyN, kw(map[string]*Spec{
		"TARGETS":        sortable(anyN),
		"FILES":          sortable(anyN),
		"PROGRAMS":       sortable(anyN),
		"DIRECTORY":      p(anyN),
		"EXPORT":         p(one),
		"DESTINATION":    p(one),
		"COMPONENT":      p(one),
		"PERMISSIONS":    p(anyN),
		"CONFIGURATIONS": p(anyN),
		"RENAME":         p(one),
		"RUNTIME":        installTargetKind(),
		"LIBRARY":        installTargetKind(),
		"ARCHIVE":        installTargetKind(),
		"OBJECTS":        installTargetKind(),
		"FRAMEWORK":      installTargetKind(),
		"BUNDLE":         installTargetKind(),
		"PUBLIC_HEADER":  installTargetKind(),
		"PRIVATE_HEADER": installTargetKind(),
		"RESOURCE":       installTargetKind(),
		"INCLUDES":       p(anyN),
		"PATTERN":        p(one),
	}), "OPTIONAL", "EXCLUDE_FROM_ALL", "USE_SOURCE_PERMISSIONS",
		"MESSAGE_NEVER"))
	db.Add("link_directories", Standard(many, nil, "AFTER", "BEFORE"))
	db.Add("link_libraries", Standard(anyN, nil))
	db.Add("list", Standard(many, nil))
	db.Add("macro", Standard(many, nil))
	db.Add("mark_as_advanced", Standard(many, nil, "CLEAR", "FORCE"))
	db.Add("message", Standard(many, nil,
		"STATUS", "WARNING", "AUTHOR_WARNING", "SEND_ERROR", "FATAL_ERROR",
		"DEPRECATION", "NOTICE", "VERBOSE", "DEBUG", "TRACE", "CHECK_START",
		"CHECK_PASS", "CHECK_FAIL"))
	db.Add("option", Standard(anyN, nil))
	db.Add("project", Standard(many, kw(map[string]*Spec{
		"VERSION":      p(one),
		"DESCRIPTION":  p(one),
		"HOMEPAGE_URL": p(one),
		"LANGUAGES":    sortable(anyN),
	})))
	db.Add("return", Standard(anyN, nil))
	db.Add("separate_arguments", Standard(many, nil,
		"UNIX_COMMAND", "WINDOWS_COMMAND", "NATIVE_COMMAND"))
	db.Add("set", Standard(many, kw(map[string]*Spec{
		"CACHE": p(many),
	}), "PARENT_SCOPE", "FORCE"))
	db.Add("set_directory_properties", Standard(anyN, kw(map[string]*Spec{
		"PROPERTIES": p(many),
	})))
	db.Add("set_property", Standard(anyN, kw(map[string]*Spec{
		"TARGET":    p(anyN),
		"SOURCE":    p(anyN),
		"DIRECTORY": p(anyN),
		"INSTALL":   p(anyN),
		"TEST":      p(anyN),
		"CACHE":     p(anyN),
		"PROPERTY":  p(many),
	}), "GLOBAL", "APPEND", "APPEND_STRING"))
	db.Add("set_target_properties", Standard(many, kw(map[string]*Spec{
		"PROPERTIES": p(many),
	})))
	db.Add("set_tests_properties", Standard(many, kw(map[string]*Spec{
		"PROPERTIES": p(many),
	})))
	db.Add("string", Standard(many, nil))
	db.Add("target_compile_definitions", Standard(one, targetScopeKwargs()))
	db.Add("target_compile_features", Standard(one, targetScopeKwargs()))
	db.Add("target_compile_options", Standard(one, targetScopeKwargs(), "BEFORE"))
	db.Add("target_include_directories", Standard(one, targetScopeKwargs(),
		"SYSTEM", "BEFORE", "AFTER"))
	db.Add("target_link_directories", Standard(one, targetScopeKwargs(), "BEFORE"))
	db.Add("target_link_options", Standard(one, targetScopeKwargs(), "BEFORE"))
	db.Add("target_link_libraries", Standard(many, kw(map[string]*Spec{
		"INTERFACE":                sortable(anyN),
		"PUBLIC":                   sortable(anyN),
		"PRIVATE":                  sortable(anyN),
		"LINK_PUBLIC":              sortable(anyN),
		"LINK_PRIVATE":             sortable(anyN),
		"LINK_INTERFACE_LIBRARIES": p(anyN),
	})))
	db.Add("target_sources", Standard(one, targetScopeKwargs()))
	db.Add("try_compile", Standard(many, kw(map[string]*Spec{
		"OUTPUT_VARIABLE":     p(one),
		"COPY_FILE":           p(one),
		"COMPILE_DEFINITIONS": p(anyN),
		"LINK_LIBRARIES":      p(anyN),
		"CMAKE_FLAGS":         p(anyN),
		"SOURCES":             p(anyN),
	})))
	db.Add("unset", Standard(one, nil, "CACHE", "PARENT_SCOPE"))
	db.Add("variable_watch", Standard(many, nil))

	// Flow control conditions share the boolean AND/OR grammar. The closers
	// optionally repeat the condition, so they get the same grammar.
	for _, name := range []string{"if", "elseif", "while", "else", "endif", "endwhile"} {
		db.Add(name, Conditional())
	}
	db.Add("block", Standard(anyN, kw(map[string]*Spec{
		"SCOPE_FOR": p(anyN),
		"PROPAGATE": p(anyN),
	})))
	db.Add("endblock", Standard(anyN, nil))
	db.Add("endforeach", Standard(anyN, nil))
	db.Add("endfunction", Standard(anyN, nil))
	db.Add("endmacro", Standard(anyN, nil))

	return db
}

// findSpec is the shared grammar of the find_* commands
func findSpec() *Spec {
	return Standard(many, kw(map[string]*Spec{
		"NAMES":         p(anyN),
		"HINTS":         p(anyN),
		"PATHS":         p(anyN),
		"PATH_SUFFIXES": p(anyN),
		"DOC":           p(one),
		"ENV":           p(one),
	}), "REQUIRED", "NO_DEFAULT_PATH", "NO_CMAKE_PATH",
		"NO_CMAKE_ENVIRONMENT_PATH", "NO_SYSTEM_ENVIRONMENT_PATH",
		"NO_CMAKE_SYSTEM_PATH", "CMAKE_FIND_ROOT_PATH_BOTH",
		"ONLY_CMAKE_FIND_ROOT_PATH", "NO_CMAKE_FIND_ROOT_PATH")
}
