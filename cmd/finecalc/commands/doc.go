// Package commands defines the finecalc CLI.
//
// Commands
//
//   - (none)          Open the interactive fine calculator
//   - import catalog  Merge offenses from a CSV file into the store
//   - import presets  Merge presets from a CSV file into the store
//   - ledger list     Print the stored wanted list
//   - ledger export   Write the stored wanted list to a CSV file
//   - ledger reset    Empty the stored wanted list
//   - config init     Write a config file with the current settings
//
// The root command loads configuration and the logger before any subcommand
// runs. Subcommands that touch data open the configured store themselves.
package commands
