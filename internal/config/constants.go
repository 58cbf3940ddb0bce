package config

// DefaultPrefix marks managed variable names, e.g. _$_count.
const DefaultPrefix = "_$_"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".js", ".jsx"}

// FrameworkModule is the host rendering framework import source.
const FrameworkModule = "react"

// FrameworkAlias is the internal alias injected when a file uses a state
// hook but has no usable framework binding of its own.
const FrameworkAlias = "ReactSW"

// SharedModuleAlias is the internal alias under which the generated
// shared-context module is imported.
const SharedModuleAlias = "SharedStatesSW"

// SharedModuleBase is the file name of the generated shared-context module.
const SharedModuleBase = "shared-states.js"

// GlobalsFileBase is the file name of the generated lint allowlist.
const GlobalsFileBase = "statewire.globals.json"

// Hook names reached through the framework binding.
const (
	UseStateHook   = "useState"
	UseContextHook = "useContext"
)

// UpdaterParamName is the parameter of the generated functional updater:
// set<Owner>(prevState => ({...prevState, key: value})).
const UpdaterParamName = "prevState"
