// Command etymap is the CLI companion to etymapd. It traces word
// etymologies, drives timeline playback in daemon sessions, and manages
// saved-word collections and study groups.
package main
