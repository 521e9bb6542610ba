package classifier

import "strings"

// baseStdlib lists the top-level standard library modules of Python 3.8.
var baseStdlib = []string{
	"__future__", "__main__", "_abc", "_ast", "_bisect", "_bootlocale", "_codecs",
	"_collections_abc", "_compat_pickle", "_compression", "_csv", "_datetime",
	"_decimal", "_dummy_thread", "_functools", "_heapq", "_io", "_json", "_locale",
	"_markupbase", "_operator", "_osx_support", "_pickle", "_py_abc", "_pydecimal",
	"_pyio", "_random", "_signal", "_sitebuiltins", "_socket", "_sqlite3", "_ssl",
	"_stat", "_string", "_strptime", "_struct", "_thread", "_threading_local",
	"_tracemalloc", "_warnings", "_weakref",
	"abc", "aifc", "antigravity", "argparse", "array", "ast", "asynchat", "asyncio",
	"asyncore", "atexit", "audioop",
	"base64", "bdb", "binascii", "binhex", "bisect", "builtins", "bz2",
	"cProfile", "calendar", "cgi", "cgitb", "chunk", "cmath", "cmd", "code", "codecs",
	"codeop", "collections", "colorsys", "compileall", "concurrent", "configparser",
	"contextlib", "contextvars", "copy", "copyreg", "crypt", "csv", "ctypes", "curses",
	"dataclasses", "datetime", "dbm", "decimal", "difflib", "dis", "distutils",
	"doctest", "dummy_threading",
	"email", "encodings", "ensurepip", "enum", "errno",
	"faulthandler", "fcntl", "filecmp", "fileinput", "fnmatch", "formatter",
	"fractions", "ftplib", "functools",
	"gc", "genericpath", "getopt", "getpass", "gettext", "glob", "grp", "gzip",
	"hashlib", "heapq", "hmac", "html", "http",
	"idlelib", "imaplib", "imghdr", "imp", "importlib", "inspect", "io", "ipaddress",
	"itertools",
	"json",
	"keyword",
	"lib2to3", "linecache", "locale", "logging", "lzma",
	"mailbox", "mailcap", "marshal", "math", "mimetypes", "mmap", "modulefinder",
	"msilib", "msvcrt", "multiprocessing",
	"netrc", "nis", "nntplib", "ntpath", "nturl2path", "numbers",
	"opcode", "operator", "optparse", "os", "ossaudiodev",
	"parser", "pathlib", "pdb", "pickle", "pickletools", "pipes", "pkgutil",
	"platform", "plistlib", "poplib", "posix", "posixpath", "pprint", "profile",
	"pstats", "pty", "pwd", "py_compile", "pyclbr", "pydoc", "pydoc_data",
	"queue", "quopri",
	"random", "re", "readline", "reprlib", "resource", "rlcompleter", "runpy",
	"sched", "secrets", "select", "selectors", "shelve", "shlex", "shutil", "signal",
	"site", "smtpd", "smtplib", "sndhdr", "socket", "socketserver", "spwd", "sqlite3",
	"sre_compile", "sre_constants", "sre_parse", "ssl", "stat", "statistics", "string",
	"stringprep", "struct", "subprocess", "sunau", "symbol", "symtable", "sys",
	"sysconfig", "syslog",
	"tabnanny", "tarfile", "telnetlib", "tempfile", "termios", "test", "textwrap",
	"this", "threading", "time", "timeit", "tkinter", "token", "tokenize", "trace",
	"traceback", "tracemalloc", "tty", "turtle", "turtledemo", "types", "typing",
	"unicodedata", "unittest", "urllib", "uu", "uuid",
	"venv",
	"warnings", "wave", "weakref", "webbrowser", "winreg", "winsound", "wsgiref",
	"xdrlib", "xml", "xmlrpc",
	"zipapp", "zipfile", "zipimport", "zlib",
}

// stdlibChanges are applied cumulatively on top of baseStdlib, oldest first.
var stdlibChanges = []struct {
	version string
	added   []string
	removed []string
}{
	{version: "3.8"},
	{
		version: "3.9",
		added:   []string{"graphlib", "zoneinfo", "_zoneinfo"},
		removed: []string{"_dummy_thread", "dummy_threading"},
	},
	{
		version: "3.10",
		removed: []string{"_bootlocale", "formatter", "parser", "symbol"},
	},
	{
		version: "3.11",
		added:   []string{"tomllib", "_tokenize"},
		removed: []string{"binhex"},
	},
	{
		version: "3.12",
		removed: []string{"asynchat", "asyncore", "distutils", "imp", "smtpd"},
	},
	{
		version: "3.13",
		added:   []string{"_colorize", "_pyrepl"},
		removed: []string{
			"aifc", "audioop", "cgi", "cgitb", "chunk", "crypt", "imghdr", "lib2to3",
			"mailcap", "msilib", "nis", "nntplib", "ossaudiodev", "pipes", "sndhdr",
			"spwd", "sunau", "telnetlib", "uu", "xdrlib",
		},
	},
}

// SupportedVersions returns the Python versions with a standard library list.
func SupportedVersions() []string {
	versions := make([]string, 0, len(stdlibChanges))
	for _, change := range stdlibChanges {
		versions = append(versions, change.version)
	}
	return versions
}

// StdlibModules returns the standard library module set for a "major.minor" version.
// Patch components are ignored ("3.12.4" is treated as "3.12").
func StdlibModules(version string) (map[string]struct{}, bool) {
	target := majorMinor(version)

	modules := make(map[string]struct{}, len(baseStdlib)+8)
	for _, name := range baseStdlib {
		modules[name] = struct{}{}
	}

	for _, change := range stdlibChanges {
		for _, name := range change.added {
			modules[name] = struct{}{}
		}
		for _, name := range change.removed {
			delete(modules, name)
		}
		if change.version == target {
			return modules, true
		}
	}

	return nil, false
}

func majorMinor(version string) string {
	parts := strings.Split(strings.TrimSpace(version), ".")
	if len(parts) < 2 {
		return strings.TrimSpace(version)
	}
	return parts[0] + "." + parts[1]
}
