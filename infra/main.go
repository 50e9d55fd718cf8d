package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/drought-monitor/infra/cloudrun"
	"github.com/GregMSThompson/drought-monitor/infra/docker"
	"github.com/GregMSThompson/drought-monitor/infra/earthengine"
	"github.com/GregMSThompson/drought-monitor/infra/firestore"
	"github.com/GregMSThompson/drought-monitor/infra/identity"
	"github.com/GregMSThompson/drought-monitor/infra/provider"
	"github.com/GregMSThompson/drought-monitor/infra/secret"
	"github.com/GregMSThompson/drought-monitor/infra/storage"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		appCfg := config.New(ctx, "app")
		eeKey := appCfg.RequireSecret("eeServiceAccountKey")
		divisionSource := appCfg.Get("divisionSource")
		if divisionSource == "" {
			divisionSource = "csv"
		}
		authEnabled := appCfg.GetBool("authEnabled")

		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		apiSA, err := cloudrun.CreateServiceAccount(ctx, prov)
		if err != nil {
			return err
		}

		// earth engine access for the map layers
		ee, err := earthengine.SetupEarthEngine(ctx, prov, apiSA)
		if err != nil {
			return err
		}

		// the service account key used to sign earth engine requests
		if _, err = secret.SetupSecretManager(ctx, prov); err != nil {
			return err
		}
		keySecret, err := secret.AddSecret(ctx, "eeKeySecret", "earthengine-key", eeKey, apiSA)
		if err != nil {
			return err
		}

		// per-division series files
		bucket, err := storage.CreateSeriesBucket(ctx, prov, apiSA)
		if err != nil {
			return err
		}

		if divisionSource == "firestore" {
			if err = firestore.SetupFirestore(ctx, prov, apiSA); err != nil {
				return err
			}
		}
		if authEnabled {
			if _, err = identity.SetupIdentity(ctx, prov); err != nil {
				return err
			}
		}

		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		svc, err := cloudrun.SetupCloudRun(ctx, prov, apiSA, cloudrun.ServiceEnv{
			EEKeySecret:    keySecret,
			SeriesBucket:   bucket.Name,
			DivisionSource: divisionSource,
			AuthEnabled:    authEnabled,
		}, repo, ee)
		if err != nil {
			return err
		}

		ctx.Export("url", svc.Statuses.Index(pulumi.Int(0)).Url())
		ctx.Export("seriesBucket", bucket.Name)
		return nil
	})
}
