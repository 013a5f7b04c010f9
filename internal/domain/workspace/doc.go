// Package workspace holds the collaboration entities the activity layer
// points at: users and their profiles, organizations, projects and tasks.
// They are deliberately thin; the activity and invitation packages only need
// a stable reference, a display form and, for projects and organizations,
// the membership capability.
package workspace
