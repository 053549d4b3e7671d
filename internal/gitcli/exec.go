package gitcli

import "os/exec"

// commandContext is a seam for tests that need to stub subprocess execution.
var commandContext = exec.CommandContext
