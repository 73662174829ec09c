// Package cliflag groups related command-line flags under named sets so a
// large options tree (server, warehouse, LLM, vector index, ...) can each
// own a named *pflag.FlagSet instead of dumping everything into one.
package cliflag

import "github.com/spf13/pflag"

// NamedFlagSets holds a series of flag sets keyed by name, in the order
// they were first requested. FlagSet("generic") always returns the same
// set for the same name, so option groups can each claim one without
// coordinating with each other.
type NamedFlagSets struct {
	Order    []string
	FlagSets map[string]*pflag.FlagSet
}

// FlagSet returns the flag set registered under the given name, creating
// it (and recording its place in Order) on first use.
func (nfs *NamedFlagSets) FlagSet(name string) *pflag.FlagSet {
	if nfs.FlagSets == nil {
		nfs.FlagSets = map[string]*pflag.FlagSet{}
	}
	if _, ok := nfs.FlagSets[name]; !ok {
		nfs.FlagSets[name] = pflag.NewFlagSet(name, pflag.ExitOnError)
		nfs.Order = append(nfs.Order, name)
	}
	return nfs.FlagSets[name]
}
