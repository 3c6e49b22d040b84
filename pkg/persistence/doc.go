// Package persistence stores snapshots of a mesh network to disk.
//
// A snapshot holds the provisioners with their delegated ranges, the nodes,
// groups and scenes, the IV index and the exclusion lists, so allocation
// resumes where it left off after a restart. Files ending in .yaml or .yml
// are written as YAML, anything else as JSON.
package persistence
