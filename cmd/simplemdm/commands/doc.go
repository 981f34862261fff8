// Package commands defines the simplemdm subcommands and wires them into the
// dispatcher.
//
// Commands
//
//   - list              List managed devices
//   - software <name>   Find devices with an installed app
//   - device <id>       Show one device
//   - apps <device-id>  List the apps installed on a device
//   - logs              Print the account's audit log
//
// # Implementation
//
// Every command is a cli.Descriptor registered explicitly by Register. A
// handler asks its ClientSource for an API client, which resolves the API
// key on first use, so commands that fail before talking to the API never
// prompt.
package commands
