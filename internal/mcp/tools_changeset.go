package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/devrig/internal/changeset"
)

// --- Changeset list tool ---

// ChangesetListInput is the input for the changeset_list tool.
type ChangesetListInput struct {
	Dir string `json:"dir,omitempty" jsonschema:"project directory"`
}

// ChangesetListOutput is the output for the changeset_list tool.
type ChangesetListOutput struct {
	Dir        string                `json:"dir"                jsonschema:"changeset directory"`
	Changesets []changeset.Changeset `json:"changesets"         jsonschema:"pending changesets sorted by id"`
	Releases   []changeset.Release   `json:"releases"           jsonschema:"highest bump per package across all changesets"`
	Invalid    []changeset.FileError `json:"invalid,omitempty"  jsonschema:"changeset files that failed to parse"`
}

func handleChangesetList(defaultDir string) mcp.ToolHandlerFor[ChangesetListInput, ChangesetListOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ChangesetListInput) (*mcp.CallToolResult, ChangesetListOutput, error) {
		proj, err := loadProject(defaultDir, input.Dir, "", "")
		if err != nil {
			return nil, ChangesetListOutput{}, err
		}

		store := changeset.NewStore(proj.root, proj.settings.ChangesetDir)
		changesets, invalid, err := store.List()
		if err != nil {
			return nil, ChangesetListOutput{}, fmt.Errorf("listing changesets: %w", err)
		}
		if changesets == nil {
			changesets = []changeset.Changeset{}
		}

		return nil, ChangesetListOutput{
			Dir:        store.Dir,
			Changesets: changesets,
			Releases:   changeset.Aggregate(changesets),
			Invalid:    invalid,
		}, nil
	}
}

// --- Changeset add tool ---

// ReleaseInput is one package bump in a changeset_add call.
type ReleaseInput struct {
	Package string `json:"package,omitempty" jsonschema:"package name (default: name from package.json)"`
	Bump    string `json:"bump"              jsonschema:"major, minor or patch"`
}

// ChangesetAddInput is the input for the changeset_add tool.
type ChangesetAddInput struct {
	Releases []ReleaseInput `json:"releases,omitempty" jsonschema:"packages to release"`
	Summary  string         `json:"summary,omitempty"  jsonschema:"changelog text (required unless empty)"`
	Empty    bool           `json:"empty,omitempty"    jsonschema:"write a changeset that releases nothing"`
	ID       string         `json:"id,omitempty"       jsonschema:"file name without .md (default: generated)"`
	Dir      string         `json:"dir,omitempty"      jsonschema:"project directory"`
}

// ChangesetAddOutput is the output for the changeset_add tool.
type ChangesetAddOutput struct {
	Changeset changeset.Changeset `json:"changeset" jsonschema:"the written changeset"`
	Path      string              `json:"path"      jsonschema:"file that was written"`
}

func handleChangesetAdd(defaultDir string) mcp.ToolHandlerFor[ChangesetAddInput, ChangesetAddOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ChangesetAddInput) (*mcp.CallToolResult, ChangesetAddOutput, error) {
		if len(input.Releases) == 0 && !input.Empty {
			return nil, ChangesetAddOutput{}, errors.New("releases are required (set empty=true for a changeset that releases nothing)")
		}
		if len(input.Releases) > 0 && input.Empty {
			return nil, ChangesetAddOutput{}, errors.New("cannot combine releases with empty=true")
		}

		proj, err := loadProject(defaultDir, input.Dir, "", "")
		if err != nil {
			return nil, ChangesetAddOutput{}, err
		}

		releases, err := buildReleases(proj.root, input.Releases)
		if err != nil {
			return nil, ChangesetAddOutput{}, err
		}

		store := changeset.NewStore(proj.root, proj.settings.ChangesetDir)
		written, err := store.Add(changeset.Changeset{
			ID:       input.ID,
			Releases: releases,
			Summary:  input.Summary,
		})
		if err != nil {
			return nil, ChangesetAddOutput{}, err
		}

		return nil, ChangesetAddOutput{Changeset: written, Path: store.Path(written.ID)}, nil
	}
}

// buildReleases validates bumps and fills missing package names from package.json.
func buildReleases(root string, inputs []ReleaseInput) ([]changeset.Release, error) {
	releases := make([]changeset.Release, 0, len(inputs))
	for _, in := range inputs {
		bump, err := changeset.ParseBump(in.Bump)
		if err != nil {
			return nil, err
		}
		pkg := in.Package
		if pkg == "" {
			pkg, err = changeset.PackageName(root)
			if err != nil {
				return nil, fmt.Errorf("package name not given: %w", err)
			}
		}
		releases = append(releases, changeset.Release{Package: pkg, Bump: bump})
	}
	return releases, nil
}
