// SPDX-License-Identifier: MPL-2.0

// Package storage is the persistence boundary for the shell's durable
// records. Each record is an independent JSON document addressed by a fixed
// logical key, mirroring the browser-storage model the shell state was
// designed around. Backends only move bytes; encoding and schema checks
// belong to the record owners (vfs.Store, shell.Environment, ...).
package storage
