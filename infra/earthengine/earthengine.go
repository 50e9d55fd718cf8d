package earthengine

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// SetupEarthEngine enables the Earth Engine API and lets the API service
// account read public collections and create map tiles.
func SetupEarthEngine(ctx *pulumi.Context, prov *gcp.Provider, apiSA *serviceaccount.Account) (*projects.Service, error) {
	svc, err := projects.NewService(ctx, "earthEngine", &projects.ServiceArgs{
		Service: pulumi.String("earthengine.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	member := apiSA.Email.ApplyT(func(email string) string {
		return fmt.Sprintf("serviceAccount:%s", email)
	}).(pulumi.StringOutput)

	roles := map[string]string{
		"earthEngineViewer":    "roles/earthengine.viewer",
		"serviceUsageConsumer": "roles/serviceusage.serviceUsageConsumer",
	}
	for name, role := range roles {
		_, err = projects.NewIAMMember(ctx, name, &projects.IAMMemberArgs{
			Project: pulumi.String(projectID),
			Role:    pulumi.String(role),
			Member:  member,
		},
			pulumi.Provider(prov),
			pulumi.DependsOn([]pulumi.Resource{svc}),
		)
		if err != nil {
			return nil, err
		}
	}
	return svc, nil
}
