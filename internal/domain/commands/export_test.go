package commands

// StagedFiles exports stagedFiles for testing.
var StagedFiles = stagedFiles //nolint:gochecknoglobals // test export

// ConfirmTag exports confirmTag for testing.
var ConfirmTag = confirmTag //nolint:gochecknoglobals // test export

// SelectRepositories exports selectRepositories for testing.
var SelectRepositories = selectRepositories //nolint:gochecknoglobals // test export
