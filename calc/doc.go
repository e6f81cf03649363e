// Package calc holds the calculation engine behind the bridge.
//
// The bridge treats an Engine as a black box: it hands over raw beatmap bytes
// and a normalized score.Request and receives a wire.PerformanceResult, or a
// Gradual cursor that yields one result per hit object.
//
// Reference is the engine shipped with this module. It parses the .osu text
// format and rates maps with a cumulative strain model: every hit object adds
// non-negative strain, so star rating never decreases over a prefix of the
// timeline. Performance follows the PPv2 shape per mode (aim, speed, accuracy
// and flashlight for standard; difficulty and accuracy for taiko; a single
// difficulty value for catch and mania).
//
// The numbers are not meant to match any public leaderboard. Hosts that need
// official values plug in their own Engine.
package calc
