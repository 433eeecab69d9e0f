// Package task implements ezdev's named-task engine.
//
// A [Task] is a named operation with declared dependencies. The
// [Registry] holds all known tasks and resolves a task name into an
// execution order (dependencies first, each task at most once, cycles
// rejected). The [Runner] executes that order sequentially and
// fail-fast: the first non-nil error aborts the run and every task
// after it — including the requested task's own body if a dependency
// failed — is skipped. There are no retries and no partial-failure
// recovery.
//
// Beyond the built-in set, projects may declare extra tasks in an
// ezdev.toml manifest; see [LoadManifest].
package task
