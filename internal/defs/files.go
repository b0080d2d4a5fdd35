package defs

// Common file and directory names used across the project.
const (
	// PackDir is the per-project state directory.
	PackDir = ".agentpack"

	// ConfigYAML is the project configuration file inside PackDir.
	ConfigYAML = "config.yaml"

	// LockJSON is the lock record that tracks deployed files.
	LockJSON = "lock.json"

	// MarkerYAML is the repository marker file at the root of every
	// content source. It also declares the source's profiles.
	MarkerYAML = "agentpack.yaml"

	// SkillManifest is the manifest file that gates a whole skill directory.
	SkillManifest = "SKILL.md"

	// MCPJSON is the shared tool-server configuration passed through verbatim.
	MCPJSON = "mcp.json"

	// IgnoreFile holds ignore patterns passed through verbatim.
	IgnoreFile = ".aiignore"
)

// Directory names inside a content source and the composed tree.
const (
	SharedDir   = "shared"
	ProfilesDir = "profiles"
	ContentDir  = "content"
	OutputDir   = "out"

	RulesDir     = "rules"
	CommandsDir  = "commands"
	SubagentsDir = "subagents"
	SkillsDir    = "skills"
)

// EntityDirs lists the per-document entity type directories in merge order.
// Skills are handled separately because a skill is a whole directory.
var EntityDirs = []string{RulesDir, CommandsDir, SubagentsDir}
