package pipeline

import (
	"fmt"
)

// Plan is an ordered sequence of jobs over shared artifacts.
type Plan struct {
	Name string `yaml:"name"`
	Jobs []Job  `yaml:"jobs"`
}

// SteamArtifact is the artifact the primary job produces and every branch
// consumes.
const SteamArtifact = "temp_steam.txt"

// Default returns the built-in enrichment sequence: the Steam parser feeds a
// shared item list, four producer/consumer branches and a flat list of
// one-shot seekers fan out from it, and the shared list is dropped last.
func Default() Plan {
	jobs := []Job{
		{Name: "steam_parser", Output: SteamArtifact, ForwardExtras: true},
		{Name: "seek_rawg_id", Input: SteamArtifact},

		{Name: "seek_igdb_id", Input: SteamArtifact, Output: "temp_igdb.txt"},
		{Name: "seek_lutris_id", Input: "temp_igdb.txt"},

		{Name: "seek_pcgamingwiki_id", Input: SteamArtifact, Output: "temp_pcgw.txt"},
		{Name: "import_pcgamingwiki_data", Input: "temp_pcgw.txt"},

		{Name: "seek_moddb_id", Input: SteamArtifact, Output: "temp_moddb.txt"},
		{Name: "seek_indiedb_id", Input: "temp_moddb.txt"},

		{Name: "seek_uvl_id", Input: SteamArtifact, Output: "temp_uvl.txt"},
		{Name: "qualify_uvl", Input: "temp_uvl.txt"},
	}

	oneShots := []string{
		"seek_hltb_id",
		"seek_mobygames_id",
		"seek_cooptimus_id",
		"seek_riotpixels_id",
		"seek_isthereanydeal_id",
		"seek_steamgriddb_id",
		"seek_stopgame_id",
		"seek_tuxdb_id",
		"seek_vgtimes_id",
		"seek_vkplay_id",
	}
	for _, name := range oneShots {
		jobs = append(jobs, Job{Name: name, Input: SteamArtifact})
	}

	return Plan{Name: "default", Jobs: jobs}
}

// Validate checks the plan for structural mistakes: unnamed jobs, duplicate
// producers, reads of artifacts that are not yet written, and extras
// forwarded to more than one job.
func (p Plan) Validate() error {
	if len(p.Jobs) == 0 {
		return fmt.Errorf("plan %q has no jobs", p.Name)
	}

	produced := make(map[string]int, len(p.Jobs))
	forwards := 0
	for i, job := range p.Jobs {
		if job.Name == "" {
			return fmt.Errorf("job %d has no name", i)
		}
		if job.ForwardExtras {
			forwards++
		}
		if job.Input != "" {
			if _, ok := produced[job.Input]; !ok {
				return fmt.Errorf("job %q reads artifact %q before any job produces it", job.Name, job.Input)
			}
		}
		if job.Output != "" {
			if prev, ok := produced[job.Output]; ok {
				return fmt.Errorf("artifact %q has two producers: %q and %q", job.Output, p.Jobs[prev].Name, job.Name)
			}
			produced[job.Output] = i
		}
	}
	if forwards > 1 {
		return fmt.Errorf("extras may be forwarded to at most one job, %d jobs request them", forwards)
	}
	return nil
}

// Scripts returns the distinct script names the plan invokes, in order.
func (p Plan) Scripts() []string {
	seen := make(map[string]struct{}, len(p.Jobs))
	names := make([]string, 0, len(p.Jobs))
	for _, job := range p.Jobs {
		if _, ok := seen[job.Name]; ok {
			continue
		}
		seen[job.Name] = struct{}{}
		names = append(names, job.Name)
	}
	return names
}

// producers maps each produced artifact to the index of its producing job.
func (p Plan) producers() map[string]int {
	out := make(map[string]int)
	for i, job := range p.Jobs {
		if job.Output != "" {
			out[job.Output] = i
		}
	}
	return out
}

// lastReaders maps each produced artifact to the index of the last job that
// touches it: the artifact is deleted right after that job returns. An
// artifact nobody reads is dropped right after its producer.
func (p Plan) lastReaders() map[string]int {
	out := p.producers()
	for i, job := range p.Jobs {
		if job.Input == "" {
			continue
		}
		if _, ok := out[job.Input]; ok && i > out[job.Input] {
			out[job.Input] = i
		}
	}
	return out
}
