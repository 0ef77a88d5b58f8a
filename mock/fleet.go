// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package mock

import "github.com/z5labs/armada/discovery"

// FleetDocument returns a small discovery document describing instance
// groups and zones of a Fleet service.
func FleetDocument() *discovery.Document {
	project := discovery.Parameter{
		Location:    discovery.LocationPath,
		Required:    true,
		Type:        "string",
		Description: "Project ID for this request.",
	}
	zone := discovery.Parameter{
		Location:    discovery.LocationPath,
		Required:    true,
		Type:        "string",
		Description: "The name of the zone.",
	}
	instanceGroup := discovery.Parameter{
		Location:    discovery.LocationPath,
		Required:    true,
		Type:        "string",
		Description: "The name of the instance group.",
	}
	filter := discovery.Parameter{
		Location:    discovery.LocationQuery,
		Type:        "string",
		Description: "Filter expression for filtering listed resources.",
	}
	maxResults := discovery.Parameter{
		Location:    discovery.LocationQuery,
		Type:        "integer",
		Description: "Maximum count of results to be returned.",
	}
	pageToken := discovery.Parameter{
		Location:    discovery.LocationQuery,
		Type:        "string",
		Description: "Tag returned by a previous list request to get the next page of results.",
	}

	return &discovery.Document{
		Version: "v1",
		Resources: map[string]discovery.Resource{
			"instanceGroups": {
				Methods: map[string]discovery.Method{
					"list": {
						HTTPMethod:  "GET",
						Path:        "projects/{project}/zones/{zone}/instanceGroups",
						Description: "Retrieves the list of instance groups located in the specified project and zone.",
						Parameters: map[string]discovery.Parameter{
							"project":    project,
							"zone":       zone,
							"filter":     filter,
							"maxResults": maxResults,
							"pageToken":  pageToken,
						},
						ParameterOrder: []string{"project", "zone"},
					},
					"get": {
						HTTPMethod:  "GET",
						Path:        "projects/{project}/zones/{zone}/instanceGroups/{instanceGroup}",
						Description: "Returns the specified instance group.",
						Parameters: map[string]discovery.Parameter{
							"project":       project,
							"zone":          zone,
							"instanceGroup": instanceGroup,
						},
						ParameterOrder: []string{"project", "zone", "instanceGroup"},
					},
					"insert": {
						HTTPMethod:  "POST",
						Path:        "projects/{project}/zones/{zone}/instanceGroups",
						Description: "Creates an instance group in the specified project and zone.",
						Parameters: map[string]discovery.Parameter{
							"project": project,
							"zone":    zone,
							"name": {
								Location:    discovery.LocationQuery,
								Required:    true,
								Type:        "string",
								Description: "Name of the instance group to create.",
							},
						},
						ParameterOrder: []string{"project", "zone", "name"},
					},
					"delete": {
						HTTPMethod:  "DELETE",
						Path:        "projects/{project}/zones/{zone}/instanceGroups/{instanceGroup}",
						Description: "Deletes the specified instance group.",
						Parameters: map[string]discovery.Parameter{
							"project":       project,
							"zone":          zone,
							"instanceGroup": instanceGroup,
						},
						ParameterOrder: []string{"project", "zone", "instanceGroup"},
					},
					"listInstances": {
						HTTPMethod:  "GET",
						Path:        "projects/{project}/zones/{zone}/instanceGroups/{instanceGroup}/listInstances",
						Description: "Lists the instances in the specified instance group.",
						Parameters: map[string]discovery.Parameter{
							"project":       project,
							"zone":          zone,
							"instanceGroup": instanceGroup,
							"instanceState": {
								Location:    discovery.LocationQuery,
								Type:        "string",
								Description: "Instances in which state should be returned.",
							},
						},
						ParameterOrder: []string{"project", "zone", "instanceGroup"},
					},
				},
			},
			"zones": {
				Methods: map[string]discovery.Method{
					"list": {
						HTTPMethod:  "GET",
						Path:        "projects/{project}/zones",
						Description: "Retrieves the list of zones available to the specified project.",
						Parameters: map[string]discovery.Parameter{
							"project": project,
							"filter":  filter,
						},
						ParameterOrder: []string{"project"},
					},
					"get": {
						HTTPMethod:  "GET",
						Path:        "projects/{project}/zones/{zone}",
						Description: "Returns the specified zone.",
						Parameters: map[string]discovery.Parameter{
							"project": project,
							"zone":    zone,
						},
						ParameterOrder: []string{"project", "zone"},
					},
				},
			},
		},
	}
}
