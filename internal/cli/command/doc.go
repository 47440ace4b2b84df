// Package command defines the appcore command line.
//
// Every command shares one Env built in the app's Before hook: the loaded
// configuration, the logger and a single storage Handle that is opened on
// first use and closed in the After hook.
package command
