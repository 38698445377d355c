// Package workflow holds the pure rules of the task workflow: which status
// transitions are legal, which checklist items still block completion, how
// task statuses weigh into project progress, which transition rule fires for
// a project, and how timer sessions turn into minutes.
//
// Nothing here touches storage. The engine loads a snapshot of the relevant
// rows once per operation, asks these functions what to do, and persists the
// result.
package workflow
